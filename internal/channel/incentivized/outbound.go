package incentivized

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

type OutboundConfig struct {
	// Fee is charged in the ETH asset for every enqueued message
	Fee   *big.Int
	Queue channel.QueueConfig
}

// Outbound is open to any origin able to pay the fee. Collected fees travel
// with the batch and are claimed on the external chain by its relayer.
type Outbound struct {
	config OutboundConfig
	queue  *channel.Queue
	ledger *ledger.Ledger
	logger logrus.FieldLogger
}

var _ channel.Outbound = (*Outbound)(nil)

func NewOutbound(config OutboundConfig, ledger *ledger.Ledger, logger logrus.FieldLogger) *Outbound {
	if config.Fee == nil {
		config.Fee = new(big.Int)
	}
	return &Outbound{
		config: config,
		queue:  channel.NewQueue(model.IncentivizedChannel, config.Queue),
		ledger: ledger,
		logger: logger,
	}
}

func (out *Outbound) Enqueue(st state.Store, origin model.AccountID, target common.Address, payload []byte) error {
	cache := state.NewCache(st)
	if err := out.ledger.Debit(cache, model.ETH(), origin, out.config.Fee); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return fmt.Errorf("fee %s from %s: %w", out.config.Fee, origin, channel.ErrInsufficientFunds)
		}
		return err
	}
	msg := channel.OutboundMessage{
		Target:  target,
		Fee:     new(big.Int).Set(out.config.Fee),
		Payload: payload,
	}
	if err := out.queue.Push(cache, msg); err != nil {
		return err
	}
	cache.Commit()

	out.logger.WithFields(logrus.Fields{
		"origin": origin.String(),
		"target": target.Hex(),
		"fee":    out.config.Fee.String(),
	}).Debug("Enqueue incentivized message")
	return nil
}

func (out *Outbound) Commit(st state.Store, block uint64) (*channel.Batch, error) {
	batch, err := out.queue.Commit(st, block)
	if err != nil || batch == nil {
		return batch, err
	}

	out.logger.WithFields(logrus.Fields{
		"nonce":      batch.Nonce,
		"block":      block,
		"messages":   len(batch.Messages),
		"fee":        batch.Fee.String(),
		"commitment": batch.Commitment.Hex(),
	}).Info("Commit incentivized batch")
	return batch, nil
}

func (out *Outbound) Batch(st state.Store, nonce uint64) (*channel.Batch, error) {
	return out.queue.Batch(st, nonce)
}

func (out *Outbound) Nonce(st state.Store) (uint64, error) {
	return out.queue.Nonce(st)
}

func (out *Outbound) Pending(st state.Store) ([]channel.OutboundMessage, error) {
	return out.queue.Pending(st)
}

func (out *Outbound) Fee() *big.Int {
	return new(big.Int).Set(out.config.Fee)
}
