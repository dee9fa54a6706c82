package runtime

import (
	"fmt"
	"math/big"

	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// Height returns the number of the last applied block
func (r *Runtime) Height() (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return state.GetUint64(r.store, heightKey())
}

func (r *Runtime) LightClientHead() (*lightclient.Head, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lightClient.Head(r.store)
}

func (r *Runtime) Balance(asset model.AssetID, account model.AccountID) *big.Int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ledger.Balance(r.store, asset, account)
}

func (r *Runtime) TotalIssuance(asset model.AssetID) *big.Int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ledger.TotalIssuance(r.store, asset)
}

// InboundNonce returns the nonce of the last accepted message of ch
func (r *Runtime) InboundNonce(ch model.ChannelID) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch ch {
	case model.BasicChannel:
		return r.basicIn.Nonce(r.store)
	case model.IncentivizedChannel:
		return r.incentIn.Nonce(r.store)
	}
	return 0, fmt.Errorf("%s: %w", ch, ErrUnknownChannel)
}

// OutboundNonce returns the nonce of the last sealed batch of ch
func (r *Runtime) OutboundNonce(ch model.ChannelID) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch ch {
	case model.BasicChannel:
		return r.basicOut.Nonce(r.store)
	case model.IncentivizedChannel:
		return r.incentOut.Nonce(r.store)
	}
	return 0, fmt.Errorf("%s: %w", ch, ErrUnknownChannel)
}

func (r *Runtime) Batch(ch model.ChannelID, nonce uint64) (*channel.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch ch {
	case model.BasicChannel:
		return r.basicOut.Batch(r.store, nonce)
	case model.IncentivizedChannel:
		return r.incentOut.Batch(r.store, nonce)
	}
	return nil, fmt.Errorf("%s: %w", ch, ErrUnknownChannel)
}

// Pending returns the messages waiting for the next commit of ch
func (r *Runtime) Pending(ch model.ChannelID) ([]channel.OutboundMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch ch {
	case model.BasicChannel:
		return r.basicOut.Pending(r.store)
	case model.IncentivizedChannel:
		return r.incentOut.Pending(r.store)
	}
	return nil, fmt.Errorf("%s: %w", ch, ErrUnknownChannel)
}

// Digest returns the batches sealed by block number, nil if none
func (r *Runtime) Digest(number uint64) ([]DigestItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var digest []DigestItem
	if _, err := state.GetRLP(r.store, digestKey(number), &digest); err != nil {
		return nil, err
	}
	return digest, nil
}

// OutboundFee is the fee charged per incentivized outbound message
func (r *Runtime) OutboundFee() *big.Int {
	return r.incentOut.Fee()
}
