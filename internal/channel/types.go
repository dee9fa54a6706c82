package channel

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

//go:generate mockgen -destination mock_channel/mock_channel.go -package mock_channel -source types.go

var (
	ErrInvalidSourceChannel = errors.New("channel: invalid source channel")
	ErrNonceReplay          = errors.New("channel: nonce replay")
	ErrNonceGap             = errors.New("channel: nonce gap")
	ErrUnauthorized         = errors.New("channel: unauthorized")
	ErrInsufficientFunds    = errors.New("channel: insufficient funds")
	ErrStaleBatch           = errors.New("channel: stale batch")
	ErrBatchNotFound        = errors.New("channel: batch not found")
	ErrInvalidEnvelope      = errors.New("channel: invalid envelope")
	ErrPayloadTooLarge      = errors.New("channel: payload too large")
	ErrQueueFull            = errors.New("channel: queue full")
)

// Dispatcher routes a verified inbound payload to the application that sent
// it from the external chain.
type Dispatcher interface {
	Dispatch(st state.Store, id model.MessageID, source common.Address, payload []byte) error
}

// Outbound is the enqueue side of an outbound channel
type Outbound interface {
	Enqueue(st state.Store, origin model.AccountID, target common.Address, payload []byte) error
}

// Delivery reports the outcome of an accepted inbound message. The message
// nonce is consumed even when the application rejected the payload.
type Delivery struct {
	ID          model.MessageID
	Source      common.Address
	DispatchErr error
	Relayer     model.AccountID
	Fee         *big.Int
	Reward      *big.Int
	Remainder   *big.Int
}

func (d *Delivery) Dispatched() bool {
	return d.DispatchErr == nil
}
