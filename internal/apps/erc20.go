package apps

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// ERC20App mirrors fungible tokens locked in the external ERC20 vault
type ERC20App struct {
	address  common.Address
	ledger   *ledger.Ledger
	channels Channels
}

func NewERC20App(address common.Address, ledger *ledger.Ledger, channels Channels) *ERC20App {
	return &ERC20App{address: address, ledger: ledger, channels: channels}
}

func (a *ERC20App) Name() string {
	return "erc20"
}

func (a *ERC20App) Address() common.Address {
	return a.address
}

func (a *ERC20App) Handle(st state.Store, id model.MessageID, payload []byte) error {
	values, err := unpackCall(erc20Contract, "mint", payload)
	if err != nil {
		return err
	}
	token, ok1 := values[0].(common.Address)
	recipient, ok2 := values[2].([32]byte)
	amount, ok3 := values[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("mint arguments: %w", ErrInvalidPayload)
	}
	return a.ledger.Credit(st, model.ERC20(token), model.AccountID(recipient), amount)
}

func (a *ERC20App) Burn(st state.Store, ch model.ChannelID, origin model.AccountID, token, recipient common.Address, amount *big.Int) error {
	out, err := a.channels.get(ch)
	if err != nil {
		return err
	}
	if err := a.ledger.Debit(st, model.ERC20(token), origin, amount); err != nil {
		return err
	}
	payload, err := erc20Contract.Pack("unlock", token, [32]byte(origin), recipient, amount)
	if err != nil {
		return err
	}
	return out.Enqueue(st, origin, a.address, payload)
}
