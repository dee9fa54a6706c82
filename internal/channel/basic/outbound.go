package basic

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

type OutboundConfig struct {
	Principal model.AccountID
	Queue     channel.QueueConfig
}

// Outbound only takes messages from its principal
type Outbound struct {
	config OutboundConfig
	queue  *channel.Queue
	logger logrus.FieldLogger
}

var _ channel.Outbound = (*Outbound)(nil)

func NewOutbound(config OutboundConfig, logger logrus.FieldLogger) *Outbound {
	return &Outbound{
		config: config,
		queue:  channel.NewQueue(model.BasicChannel, config.Queue),
		logger: logger,
	}
}

func (out *Outbound) Enqueue(st state.Store, origin model.AccountID, target common.Address, payload []byte) error {
	if origin != out.config.Principal {
		return fmt.Errorf("origin %s: %w", origin, channel.ErrUnauthorized)
	}
	if err := out.queue.Push(st, channel.OutboundMessage{Target: target, Payload: payload}); err != nil {
		return err
	}

	out.logger.WithFields(logrus.Fields{
		"target": target.Hex(),
		"size":   len(payload),
	}).Debug("Enqueue basic message")
	return nil
}

// Commit seals pending messages on interval boundaries
func (out *Outbound) Commit(st state.Store, block uint64) (*channel.Batch, error) {
	batch, err := out.queue.Commit(st, block)
	if err != nil || batch == nil {
		return batch, err
	}

	out.logger.WithFields(logrus.Fields{
		"nonce":      batch.Nonce,
		"block":      block,
		"messages":   len(batch.Messages),
		"commitment": batch.Commitment.Hex(),
	}).Info("Commit basic batch")
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
