package runtime

import (
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/pkg/model"
)

var (
	ErrBlockOutOfOrder  = errors.New("runtime: block out of order")
	ErrGenesisMismatch  = errors.New("runtime: state initialized with another genesis")
	ErrNotInitialized   = errors.New("runtime: genesis not applied")
	ErrUnknownChannel   = errors.New("runtime: unknown channel")
	ErrInvalidArguments = errors.New("runtime: invalid arguments")
)

const (
	ModuleSystem       = "system"
	ModuleLightClient  = "light_client"
	ModuleBasic        = "basic_channel"
	ModuleIncentivized = "incentivized_channel"
	ModuleApps         = "apps"
)

// Block is an ordered list of extrinsics applied on top of the previous
// block.
type Block struct {
	Number     uint64
	Extrinsics []*Extrinsic
}

// Extrinsic is a call signed by origin
type Extrinsic struct {
	Origin model.AccountID
	Call   Call
}

// Event is emitted by a successful call or by block finalization
type Event struct {
	Module string            `json:"module"`
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// DigestItem announces a sealed outbound batch to relayers
type DigestItem struct {
	Channel    model.ChannelID `json:"channel"`
	Nonce      uint64          `json:"nonce"`
	Commitment common.Hash     `json:"commitment"`
}

// BlockReceipt is the outcome of applying a block
type BlockReceipt struct {
	Number uint64
	Events []Event
	Failed int
	Digest []DigestItem
}

func failedEvent(index int, call Call, err error) Event {
	return Event{
		Module: ModuleSystem,
		Name:   "ExtrinsicFailed",
		Fields: map[string]string{
			"index": strconv.Itoa(index),
			"call":  call.Name(),
			"error": err.Error(),
		},
	}
}
