package api

import (
	"math/big"

	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/runtime"
	"github.com/meshplus/ethbridge/pkg/model"
)

//go:generate mockgen -destination mock_api/mock_api.go -package mock_api -source interface.go

type GinService interface {
	// Start starts the service of gin
	Start() error

	// Stop stops the service of gin
	Stop() error
}

// Runtime is the read side of the bridge runtime served to relayers
type Runtime interface {
	Height() (uint64, error)

	LightClientHead() (*lightclient.Head, error)

	Balance(asset model.AssetID, account model.AccountID) *big.Int

	InboundNonce(ch model.ChannelID) (uint64, error)

	OutboundNonce(ch model.ChannelID) (uint64, error)

	Batch(ch model.ChannelID, nonce uint64) (*channel.Batch, error)

	Pending(ch model.ChannelID) ([]channel.OutboundMessage, error)

	Digest(number uint64) ([]runtime.DigestItem, error)
}
