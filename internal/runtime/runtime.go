package runtime

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/ethbridge/internal/apps"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/channel/basic"
	"github.com/meshplus/ethbridge/internal/channel/incentivized"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/loggers"
	"github.com/meshplus/ethbridge/internal/metrics"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

// Runtime applies blocks of extrinsics to the bridge modules and persists
// the result. Each extrinsic either applies all of its writes or none.
type Runtime struct {
	store  storage.Storage
	config *Config

	ledger       *ledger.Ledger
	lightClient  *lightclient.LightClient
	basicIn      *basic.Inbound
	basicOut     *basic.Outbound
	incentIn     *incentivized.Inbound
	incentOut    *incentivized.Outbound
	registry     *apps.Registry
	ethApp       *apps.ETHApp
	erc20App     *apps.ERC20App
	dotApp       *apps.DOTApp
	erc721App    *apps.ERC721App
	channelNames map[model.ChannelID]string

	metrics *metrics.Metrics
	logger  logrus.FieldLogger
	mu      sync.RWMutex
}

type options struct {
	metrics *metrics.Metrics
	logger  func(module string) logrus.FieldLogger
}

type Option func(*options)

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLoggers sets the source of per module loggers
func WithLoggers(logger func(module string) logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func New(store storage.Storage, config *Config, opts ...Option) (*Runtime, error) {
	o := &options{
		metrics: metrics.NopMetrics(),
		logger: func(module string) logrus.FieldLogger {
			return log.NewWithModule(module)
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &Runtime{
		store:   store,
		config:  config,
		metrics: o.metrics,
		logger:  o.logger(loggers.Runtime),
		channelNames: map[model.ChannelID]string{
			model.BasicChannel:        model.BasicChannel.String(),
			model.IncentivizedChannel: model.IncentivizedChannel.String(),
		},
	}

	channelLogger := o.logger(loggers.Channel)
	appsLogger := o.logger(loggers.Apps)

	r.ledger = ledger.New(o.logger(loggers.Ledger))
	r.lightClient = lightclient.New(config.LightClient, o.logger(loggers.LightClient))
	r.basicOut = basic.NewOutbound(config.BasicOutbound, channelLogger)
	r.incentOut = incentivized.NewOutbound(config.IncentivizedOutbound, r.ledger, channelLogger)

	channels := apps.Channels{
		model.BasicChannel:        r.basicOut,
		model.IncentivizedChannel: r.incentOut,
	}
	r.ethApp = apps.NewETHApp(config.Apps.ETH, r.ledger, channels)
	r.erc20App = apps.NewERC20App(config.Apps.ERC20, r.ledger, channels)
	r.dotApp = apps.NewDOTApp(config.Apps.DOT, config.Apps.DOTSovereign, r.ledger, channels)
	r.erc721App = apps.NewERC721App(config.Apps.ERC721, r.ledger, channels)

	registry, err := apps.NewRegistry(appsLogger, r.ethApp, r.erc20App, r.dotApp, r.erc721App)
	if err != nil {
		return nil, fmt.Errorf("create app registry: %w", err)
	}
	r.registry = registry

	r.basicIn = basic.NewInbound(config.BasicInbound, r.lightClient, registry, channelLogger)
	r.incentIn = incentivized.NewInbound(config.IncentivizedInbound, r.lightClient, registry, r.ledger, channelLogger)

	return r, nil
}

// InitGenesis writes the genesis state. It is a no-op on a store already
// initialized with the same initial header.
func (r *Runtime) InitGenesis() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hash := r.config.InitialHeader.Hash()
	if v := r.store.Get(genesisKey()); v != nil {
		if common.BytesToHash(v) != hash {
			return fmt.Errorf("stored %s, configured %s: %w", common.BytesToHash(v).Hex(), hash.Hex(), ErrGenesisMismatch)
		}
		return nil
	}

	cache := state.NewCache(r.store)
	if err := r.lightClient.InitGenesis(cache, r.config.InitialHeader, r.config.InitialDifficulty); err != nil {
		return err
	}
	for _, b := range r.config.Balances {
		if err := r.ledger.Credit(cache, b.Asset, b.Account, b.Amount); err != nil {
			return fmt.Errorf("genesis balance %s of %s: %w", b.Asset, b.Account, err)
		}
	}
	cache.Put(genesisKey(), hash.Bytes())
	state.PutUint64(cache, heightKey(), 0)

	batch := r.store.NewBatch()
	cache.Flush(batch)
	batch.Commit()

	r.logger.WithFields(logrus.Fields{
		"header":   hash.Hex(),
		"balances": len(r.config.Balances),
	}).Info("Initialize genesis")
	return nil
}

// ApplyBlock applies block on top of the current height. Failed extrinsics
// leave no trace but an ExtrinsicFailed event.
func (r *Runtime) ApplyBlock(block *Block) (*BlockReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.store.Has(genesisKey()) {
		return nil, ErrNotInitialized
	}
	height, err := state.GetUint64(r.store, heightKey())
	if err != nil {
		return nil, err
	}
	if block.Number != height+1 {
		return nil, fmt.Errorf("block %d on height %d: %w", block.Number, height, ErrBlockOutOfOrder)
	}

	blockCache := state.NewCache(r.store)
	receipt := &BlockReceipt{Number: block.Number}
	for i, ext := range block.Extrinsics {
		if ext == nil || ext.Call == nil {
			return nil, fmt.Errorf("extrinsic %d: %w", i, ErrInvalidArguments)
		}
		cache := state.NewCache(blockCache)
		events, err := ext.Call.dispatch(r, cache, ext.Origin)
		if err != nil {
			cache.Discard()
			receipt.Failed++
			receipt.Events = append(receipt.Events, failedEvent(i, ext.Call, err))
			r.metrics.Extrinsics.With("call", ext.Call.Name(), "result", "failed").Add(1)
			r.logger.WithFields(logrus.Fields{
				"block": block.Number,
				"index": i,
				"call":  ext.Call.Name(),
				"error": err,
			}).Warn("Apply extrinsic")
			continue
		}
		cache.Commit()
		receipt.Events = append(receipt.Events, events...)
		r.metrics.Extrinsics.With("call", ext.Call.Name(), "result", "ok").Add(1)
	}

	if err := r.finalize(blockCache, receipt); err != nil {
		return nil, fmt.Errorf("finalize block %d: %w", block.Number, err)
	}

	batch := r.store.NewBatch()
	blockCache.Flush(batch)
	batch.Commit()

	r.metrics.Height.Set(float64(block.Number))
	if head, err := r.lightClient.Head(r.store); err == nil {
		r.metrics.LightClientHeight.Set(float64(head.Number))
	}

	r.logger.WithFields(logrus.Fields{
		"number":     block.Number,
		"extrinsics": len(block.Extrinsics),
		"failed":     receipt.Failed,
		"batches":    len(receipt.Digest),
	}).Info("Apply block")
	return receipt, nil
}

func (r *Runtime) finalize(st state.Store, receipt *BlockReceipt) error {
	commits := []struct {
		module string
		commit func(state.Store, uint64) (*channel.Batch, error)
	}{
		{ModuleBasic, r.basicOut.Commit},
		{ModuleIncentivized, r.incentOut.Commit},
	}
	for _, c := range commits {
		batch, err := c.commit(st, receipt.Number)
		if err != nil {
			return err
		}
		if batch == nil {
			continue
		}
		receipt.Digest = append(receipt.Digest, DigestItem{
			Channel:    batch.Channel,
			Nonce:      batch.Nonce,
			Commitment: batch.Commitment,
		})
		receipt.Events = append(receipt.Events, Event{
			Module: c.module,
			Name:   "BatchCommitted",
			Fields: map[string]string{
				"nonce":      strconv.FormatUint(batch.Nonce, 10),
				"commitment": batch.Commitment.Hex(),
				"messages":   strconv.Itoa(len(batch.Messages)),
				"fee":        batch.Fee.String(),
			},
		})

		name := r.channelNames[batch.Channel]
		r.metrics.Batches.With("channel", name).Add(1)
		r.metrics.BatchSize.With("channel", name).Observe(float64(len(batch.Messages)))
	}

	if len(receipt.Digest) != 0 {
		if err := state.PutRLP(st, digestKey(receipt.Number), receipt.Digest); err != nil {
			return err
		}
	}
	state.PutUint64(st, heightKey(), receipt.Number)
	return nil
}
