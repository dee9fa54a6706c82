package basic

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

type InboundConfig struct {
	SourceChannel common.Address
}

// Inbound accepts messages emitted by one trusted channel contract. There is
// no fee and no reward.
type Inbound struct {
	config     InboundConfig
	verifier   lightclient.Verifier
	dispatcher channel.Dispatcher
	logger     logrus.FieldLogger
}

func NewInbound(config InboundConfig, verifier lightclient.Verifier, dispatcher channel.Dispatcher, logger logrus.FieldLogger) *Inbound {
	return &Inbound{
		config:     config,
		verifier:   verifier,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Submit verifies msg and dispatches its payload
func (in *Inbound) Submit(st state.Store, msg *model.InboundMessage) (*channel.Delivery, error) {
	env, err := channel.Validate(st, in.verifier, model.BasicChannel, in.config.SourceChannel, msg)
	if err != nil {
		return nil, err
	}

	delivery, err := channel.Deliver(st, in.dispatcher, model.BasicChannel, env)
	if err != nil {
		return nil, err
	}

	entry := in.logger.WithFields(logrus.Fields{
		"nonce":  env.Nonce,
		"source": env.Source.Hex(),
	})
	if !delivery.Dispatched() {
		entry.WithField("error", delivery.DispatchErr).Warn("Dispatch basic message")
	} else {
		entry.Info("Deliver basic message")
	}
	return delivery, nil
}

func (in *Inbound) Nonce(st state.Store) (uint64, error) {
	return channel.InboundNonce(st, model.BasicChannel)
}
