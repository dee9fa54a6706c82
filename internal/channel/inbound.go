package channel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// Validate runs the checks shared by every inbound channel and returns the
// decoded envelope. The source channel is compared before any proof work.
// Nothing is written.
func Validate(st state.Store, verifier lightclient.Verifier, kind model.ChannelID,
	sourceChannel common.Address, msg *model.InboundMessage) (*Envelope, error) {
	log, env, err := DecodeEnvelope(kind, msg.Data)
	if err != nil {
		return nil, err
	}
	if env.Channel != sourceChannel {
		return nil, fmt.Errorf("got %s, want %s: %w", env.Channel.Hex(), sourceChannel.Hex(), ErrInvalidSourceChannel)
	}
	if err := verifier.VerifyLog(st, log, msg.Proof); err != nil {
		return nil, err
	}

	last, err := InboundNonce(st, kind)
	if err != nil {
		return nil, err
	}
	if err := CheckNonce(last, env.Nonce); err != nil {
		return nil, err
	}
	return env, nil
}

// CheckNonce accepts exactly last+1
func CheckNonce(last, nonce uint64) error {
	if nonce <= last {
		return fmt.Errorf("nonce %d, last accepted %d: %w", nonce, last, ErrNonceReplay)
	}
	if nonce > last+1 {
		return fmt.Errorf("nonce %d, expected %d: %w", nonce, last+1, ErrNonceGap)
	}
	return nil
}

// Deliver advances the inbound nonce and hands the payload to dispatcher.
// The application runs on its own overlay, so a rejected payload leaves no
// trace besides the returned error.
func Deliver(st state.Store, dispatcher Dispatcher, kind model.ChannelID, env *Envelope) (*Delivery, error) {
	id := model.MessageID{Channel: kind, Nonce: env.Nonce}
	state.PutUint64(st, inboundNonceKey(kind), env.Nonce)

	delivery := &Delivery{ID: id, Source: env.Source, Fee: env.Fee}
	cache := state.NewCache(st)
	if err := dispatcher.Dispatch(cache, id, env.Source, env.Payload); err != nil {
		delivery.DispatchErr = err
		return delivery, nil
	}
	cache.Commit()
	return delivery, nil
}

// InboundNonce returns the last accepted nonce of the inbound channel
func InboundNonce(st state.Store, kind model.ChannelID) (uint64, error) {
	return state.GetUint64(st, inboundNonceKey(kind))
}
