package runtime

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// Call is a dispatchable runtime function
type Call interface {
	Name() string
	dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error)
}

var (
	_ Call = (*ImportHeader)(nil)
	_ Call = (*SubmitBasic)(nil)
	_ Call = (*SubmitIncentivized)(nil)
	_ Call = (*BurnETH)(nil)
	_ Call = (*BurnERC20)(nil)
	_ Call = (*LockDOT)(nil)
	_ Call = (*BurnERC721)(nil)
)

// ImportHeader submits an external chain header to the light client
type ImportHeader struct {
	Header *types.Header
}

func (c *ImportHeader) Name() string {
	return "light_client.import_header"
}

func (c *ImportHeader) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Header == nil || c.Header.Number == nil || c.Header.Difficulty == nil {
		return nil, ErrInvalidArguments
	}
	number, err := r.lightClient.ImportHeader(st, c.Header)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Module: ModuleLightClient,
		Name:   "HeaderImported",
		Fields: map[string]string{
			"number": strconv.FormatUint(number, 10),
			"hash":   c.Header.Hash().Hex(),
		},
	}}, nil
}

// SubmitBasic delivers a proven message of the basic channel
type SubmitBasic struct {
	Message *model.InboundMessage
}

func (c *SubmitBasic) Name() string {
	return "basic_channel.submit"
}

func (c *SubmitBasic) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Message == nil {
		return nil, ErrInvalidArguments
	}
	delivery, err := r.basicIn.Submit(st, c.Message)
	if err != nil {
		return nil, err
	}
	r.recordDelivery(delivery)
	return []Event{deliveryEvent(ModuleBasic, delivery)}, nil
}

// SubmitIncentivized delivers a proven message of the incentivized channel
// and rewards origin as the relayer.
type SubmitIncentivized struct {
	Message *model.InboundMessage
}

func (c *SubmitIncentivized) Name() string {
	return "incentivized_channel.submit"
}

func (c *SubmitIncentivized) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Message == nil {
		return nil, ErrInvalidArguments
	}
	delivery, err := r.incentIn.Submit(st, c.Message, origin)
	if err != nil {
		return nil, err
	}
	r.recordDelivery(delivery)

	return []Event{
		deliveryEvent(ModuleIncentivized, delivery),
		{
			Module: ModuleIncentivized,
			Name:   "RelayerRewarded",
			Fields: map[string]string{
				"relayer":  delivery.Relayer.String(),
				"reward":   delivery.Reward.String(),
				"treasury": delivery.Remainder.String(),
			},
		},
	}, nil
}

// BurnETH burns origin's wrapped ether and unlocks it on the external chain
type BurnETH struct {
	Channel   model.ChannelID
	Recipient common.Address
	Amount    *big.Int
}

func (c *BurnETH) Name() string {
	return "eth_app.burn"
}

func (c *BurnETH) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Amount == nil {
		return nil, ErrInvalidArguments
	}
	if err := r.ethApp.Burn(st, c.Channel, origin, c.Recipient, c.Amount); err != nil {
		return nil, err
	}
	return []Event{appEvent(r.ethApp.Name(), "Burned", origin, c.Channel, c.Recipient, c.Amount)}, nil
}

// BurnERC20 burns origin's wrapped token balance
type BurnERC20 struct {
	Channel   model.ChannelID
	Token     common.Address
	Recipient common.Address
	Amount    *big.Int
}

func (c *BurnERC20) Name() string {
	return "erc20_app.burn"
}

func (c *BurnERC20) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Amount == nil {
		return nil, ErrInvalidArguments
	}
	if err := r.erc20App.Burn(st, c.Channel, origin, c.Token, c.Recipient, c.Amount); err != nil {
		return nil, err
	}
	event := appEvent(r.erc20App.Name(), "Burned", origin, c.Channel, c.Recipient, c.Amount)
	event.Fields["token"] = c.Token.Hex()
	return []Event{event}, nil
}

// LockDOT moves origin's native balance into the sovereign account and
// mints the wrapped token on the external chain.
type LockDOT struct {
	Channel   model.ChannelID
	Recipient common.Address
	Amount    *big.Int
}

func (c *LockDOT) Name() string {
	return "dot_app.lock"
}

func (c *LockDOT) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.Amount == nil {
		return nil, ErrInvalidArguments
	}
	if err := r.dotApp.Lock(st, c.Channel, origin, c.Recipient, c.Amount); err != nil {
		return nil, err
	}
	return []Event{appEvent(r.dotApp.Name(), "Locked", origin, c.Channel, c.Recipient, c.Amount)}, nil
}

// BurnERC721 burns an owned wrapped token
type BurnERC721 struct {
	Channel   model.ChannelID
	Token     common.Address
	TokenID   *big.Int
	Recipient common.Address
}

func (c *BurnERC721) Name() string {
	return "erc721_app.burn"
}

func (c *BurnERC721) dispatch(r *Runtime, st state.Store, origin model.AccountID) ([]Event, error) {
	if c.TokenID == nil {
		return nil, ErrInvalidArguments
	}
	if err := r.erc721App.Burn(st, c.Channel, origin, c.Token, c.TokenID, c.Recipient); err != nil {
		return nil, err
	}
	event := appEvent(r.erc721App.Name(), "Burned", origin, c.Channel, c.Recipient, big.NewInt(1))
	event.Fields["token"] = c.Token.Hex()
	event.Fields["token_id"] = c.TokenID.String()
	return []Event{event}, nil
}

func (r *Runtime) recordDelivery(d *channel.Delivery) {
	r.metrics.Deliveries.With(
		"channel", r.channelNames[d.ID.Channel],
		"dispatched", strconv.FormatBool(d.Dispatched()),
	).Add(1)
}

func deliveryEvent(module string, d *channel.Delivery) Event {
	fields := map[string]string{
		"nonce":  strconv.FormatUint(d.ID.Nonce, 10),
		"source": d.Source.Hex(),
	}
	if !d.Dispatched() {
		fields["error"] = d.DispatchErr.Error()
		return Event{Module: module, Name: "MessageDispatchFailed", Fields: fields}
	}
	return Event{Module: module, Name: "MessageDispatched", Fields: fields}
}

func appEvent(app, name string, origin model.AccountID, ch model.ChannelID, recipient common.Address, amount *big.Int) Event {
	return Event{
		Module: ModuleApps,
		Name:   name,
		Fields: map[string]string{
			"app":       app,
			"account":   origin.String(),
			"channel":   ch.String(),
			"recipient": recipient.Hex(),
			"amount":    amount.String(),
		},
	}
}

