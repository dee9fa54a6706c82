package channel

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meshplus/ethbridge/pkg/model"
)

const channelABI = `[
	{"type":"event","name":"Message","anonymous":false,"inputs":[
		{"name":"source","type":"address","indexed":false},
		{"name":"nonce","type":"uint64","indexed":false},
		{"name":"payload","type":"bytes","indexed":false}]}
]`

const incentivizedChannelABI = `[
	{"type":"event","name":"Message","anonymous":false,"inputs":[
		{"name":"source","type":"address","indexed":false},
		{"name":"nonce","type":"uint64","indexed":false},
		{"name":"fee","type":"uint256","indexed":false},
		{"name":"payload","type":"bytes","indexed":false}]}
]`

var messageEvents = map[model.ChannelID]abi.Event{
	model.BasicChannel:        mustEvent(channelABI),
	model.IncentivizedChannel: mustEvent(incentivizedChannelABI),
}

func mustEvent(def string) abi.Event {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed.Events["Message"]
}

// Envelope is the Message event a source channel contract emits on the
// external chain.
type Envelope struct {
	// Channel is the address of the contract that emitted the event
	Channel common.Address
	// Source is the application contract that sent the message
	Source  common.Address
	Nonce   uint64
	Fee     *big.Int
	Payload []byte
}

// DecodeEnvelope decodes an rlp encoded event log of the given channel kind
func DecodeEnvelope(kind model.ChannelID, data []byte) (*types.Log, *Envelope, error) {
	event, ok := messageEvents[kind]
	if !ok {
		return nil, nil, fmt.Errorf("channel %s: %w", kind, ErrInvalidEnvelope)
	}

	log := &types.Log{}
	if err := rlp.DecodeBytes(data, log); err != nil {
		return nil, nil, fmt.Errorf("decode log: %s: %w", err.Error(), ErrInvalidEnvelope)
	}
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return nil, nil, fmt.Errorf("unexpected event signature: %w", ErrInvalidEnvelope)
	}

	values, err := event.Inputs.Unpack(log.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("unpack event: %s: %w", err.Error(), ErrInvalidEnvelope)
	}

	env := &Envelope{Channel: log.Address, Fee: new(big.Int)}
	switch kind {
	case model.BasicChannel:
		if len(values) != 3 {
			return nil, nil, ErrInvalidEnvelope
		}
		env.Source, _ = values[0].(common.Address)
		env.Nonce, _ = values[1].(uint64)
		env.Payload, _ = values[2].([]byte)
	case model.IncentivizedChannel:
		if len(values) != 4 {
			return nil, nil, ErrInvalidEnvelope
		}
		env.Source, _ = values[0].(common.Address)
		env.Nonce, _ = values[1].(uint64)
		if fee, ok := values[2].(*big.Int); ok {
			env.Fee = fee
		}
		env.Payload, _ = values[3].([]byte)
	}

	return log, env, nil
}

// EncodeEnvelope builds the event log a source channel contract would emit
// for env, and its rlp encoding as submitted by relayers.
func EncodeEnvelope(kind model.ChannelID, env *Envelope) (*types.Log, []byte, error) {
	event, ok := messageEvents[kind]
	if !ok {
		return nil, nil, fmt.Errorf("channel %s: %w", kind, ErrInvalidEnvelope)
	}

	var (
		data []byte
		err  error
	)
	switch kind {
	case model.BasicChannel:
		data, err = event.Inputs.Pack(env.Source, env.Nonce, env.Payload)
	case model.IncentivizedChannel:
		fee := env.Fee
		if fee == nil {
			fee = new(big.Int)
		}
		data, err = event.Inputs.Pack(env.Source, env.Nonce, fee, env.Payload)
	}
	if err != nil {
		return nil, nil, err
	}

	log := &types.Log{
		Address: env.Channel,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	}
	enc, err := rlp.EncodeToBytes(log)
	if err != nil {
		return nil, nil, err
	}
	return log, enc, nil
}
