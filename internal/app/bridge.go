package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/bitxhub-kit/storage/leveldb"
	"github.com/meshplus/ethbridge"
	"github.com/meshplus/ethbridge/api"
	"github.com/meshplus/ethbridge/internal/loggers"
	"github.com/meshplus/ethbridge/internal/metrics"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/meshplus/ethbridge/internal/runtime"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var (
	ErrStaleBlock = errors.New("app: stale block")
	ErrPoolFull   = errors.New("app: block pool full")
	ErrNotStarted = errors.New("app: bridge not started")
)

// Bridge represents the necessary data for running the bridge runtime
type Bridge struct {
	config    *repo.Config
	storage   storage.Storage
	runtime   *runtime.Runtime
	apiServer api.GinService
	pool      *Pool
	height    *atomic.Uint64
	started   *atomic.Bool
	mu        sync.Mutex
	logger    logrus.FieldLogger
}

// NewBridge opens the store and builds the runtime from the genesis of the
// repo.
func NewBridge(config *repo.Config) (*Bridge, error) {
	logger := loggers.Logger(loggers.App)

	var store storage.Storage
	err := retry.Retry(func(attempt uint) error {
		var err error
		store, err = leveldb.New(config.StorePath())
		if err != nil {
			logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err,
			}).Warn("Open store")
		}
		return err
	}, strategy.Limit(5), strategy.Wait(500*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", config.StorePath(), err)
	}

	genesis, err := repo.LoadGenesis(config.GenesisPath())
	if err != nil {
		store.Close()
		return nil, err
	}
	rtConfig, err := runtime.ParseGenesis(genesis)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("parse genesis: %w", err)
	}

	m := metrics.NopMetrics()
	if config.Metrics.Enable {
		m = metrics.PrometheusMetrics(config.Metrics.Namespace)
	}

	rt, err := runtime.New(store, rtConfig, runtime.WithMetrics(m), runtime.WithLoggers(loggers.Logger))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("runtime create: %w", err)
	}

	apiServer, err := api.NewServer(rt, config, loggers.Logger(loggers.ApiServer))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("gin service create: %w", err)
	}

	return &Bridge{
		config:    config,
		storage:   store,
		runtime:   rt,
		apiServer: apiServer,
		height:    atomic.NewUint64(0),
		started:   atomic.NewBool(false),
		logger:    logger,
	}, nil
}

// Start applies genesis if needed and starts serving queries
func (b *Bridge) Start() error {
	if err := b.runtime.InitGenesis(); err != nil {
		return fmt.Errorf("init genesis: %w", err)
	}
	height, err := b.runtime.Height()
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.height.Store(height)
	b.pool = NewPool(height)
	b.mu.Unlock()

	if err := b.apiServer.Start(); err != nil {
		return fmt.Errorf("api server start: %w", err)
	}
	b.started.Store(true)

	b.logger.WithFields(logrus.Fields{
		"height":  height,
		"version": ethbridge.VersionInfo(),
	}).Info("Bridge started")
	return nil
}

func (b *Bridge) Stop() error {
	if b.started.CAS(true, false) {
		if err := b.apiServer.Stop(); err != nil {
			return fmt.Errorf("api server stop: %w", err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.storage.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	b.logger.Info("Bridge stopped")
	return nil
}

// ImportBlock queues block and applies every block that became contiguous
// with the current height. It returns the receipts of the applied blocks.
func (b *Bridge) ImportBlock(block *runtime.Block) ([]*runtime.BlockReceipt, error) {
	if !b.started.Load() {
		return nil, ErrNotStarted
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	height := b.height.Load()
	if block.Number <= height {
		return nil, fmt.Errorf("block %d at height %d: %w", block.Number, height, ErrStaleBlock)
	}
	if block.Number > height+1 && b.pool.Len() >= b.config.Pool.Size {
		return nil, fmt.Errorf("block %d: %w", block.Number, ErrPoolFull)
	}

	ready := b.pool.Add(block)
	receipts := make([]*runtime.BlockReceipt, 0, len(ready))
	for _, blk := range ready {
		receipt, err := b.runtime.ApplyBlock(blk)
		if err != nil {
			b.pool = NewPool(b.height.Load())
			return receipts, fmt.Errorf("apply block %d: %w", blk.Number, err)
		}
		b.height.Store(blk.Number)
		receipts = append(receipts, receipt)
	}

	if len(ready) == 0 {
		b.logger.WithFields(logrus.Fields{
			"number": block.Number,
			"height": height,
			"queued": b.pool.Len(),
		}).Debug("Queue block")
	}
	return receipts, nil
}

// Height returns the number of the last applied block
func (b *Bridge) Height() uint64 {
	return b.height.Load()
}

// Runtime returns the runtime for queries
func (b *Bridge) Runtime() *runtime.Runtime {
	return b.runtime
}
