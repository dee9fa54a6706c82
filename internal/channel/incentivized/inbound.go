package incentivized

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

type InboundConfig struct {
	SourceChannel  common.Address
	RewardFraction Perbill
	Treasury       model.AccountID
}

// Inbound validates like the basic channel and then pays the message fee
// out to the delivering relayer and the treasury.
type Inbound struct {
	config     InboundConfig
	verifier   lightclient.Verifier
	dispatcher channel.Dispatcher
	ledger     *ledger.Ledger
	logger     logrus.FieldLogger
}

func NewInbound(config InboundConfig, verifier lightclient.Verifier, dispatcher channel.Dispatcher,
	ledger *ledger.Ledger, logger logrus.FieldLogger) *Inbound {
	return &Inbound{
		config:     config,
		verifier:   verifier,
		dispatcher: dispatcher,
		ledger:     ledger,
		logger:     logger,
	}
}

func (in *Inbound) Submit(st state.Store, msg *model.InboundMessage, relayer model.AccountID) (*channel.Delivery, error) {
	env, err := channel.Validate(st, in.verifier, model.IncentivizedChannel, in.config.SourceChannel, msg)
	if err != nil {
		return nil, err
	}

	cache := state.NewCache(st)
	reward, remainder := Split(env.Fee, in.config.RewardFraction)
	if err := in.ledger.Credit(cache, model.ETH(), relayer, reward); err != nil {
		return nil, fmt.Errorf("reward relayer: %w", err)
	}
	if err := in.ledger.Credit(cache, model.ETH(), in.config.Treasury, remainder); err != nil {
		return nil, fmt.Errorf("pay treasury: %w", err)
	}

	delivery, err := channel.Deliver(cache, in.dispatcher, model.IncentivizedChannel, env)
	if err != nil {
		return nil, err
	}
	cache.Commit()

	delivery.Relayer = relayer
	delivery.Reward = reward
	delivery.Remainder = remainder

	entry := in.logger.WithFields(logrus.Fields{
		"nonce":     env.Nonce,
		"source":    env.Source.Hex(),
		"relayer":   relayer.String(),
		"reward":    reward.String(),
		"remainder": remainder.String(),
	})
	if !delivery.Dispatched() {
		entry.WithField("error", delivery.DispatchErr).Warn("Dispatch incentivized message")
	} else {
		entry.Info("Deliver incentivized message")
	}
	return delivery, nil
}

func (in *Inbound) Nonce(st state.Store) (uint64, error) {
	return channel.InboundNonce(st, model.IncentivizedChannel)
}
