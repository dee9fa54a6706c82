package apps

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

var one = big.NewInt(1)

// ERC721App tracks every bridged token id as its own asset with a supply
// of at most one.
type ERC721App struct {
	address  common.Address
	ledger   *ledger.Ledger
	channels Channels
}

func NewERC721App(address common.Address, ledger *ledger.Ledger, channels Channels) *ERC721App {
	return &ERC721App{address: address, ledger: ledger, channels: channels}
}

func (a *ERC721App) Name() string {
	return "erc721"
}

func (a *ERC721App) Address() common.Address {
	return a.address
}

func (a *ERC721App) Handle(st state.Store, id model.MessageID, payload []byte) error {
	values, err := unpackCall(erc721Contract, "mint", payload)
	if err != nil {
		return err
	}
	token, ok1 := values[0].(common.Address)
	tokenID, ok2 := values[1].(*big.Int)
	recipient, ok3 := values[3].([32]byte)
	if !ok1 || !ok2 || !ok3 {
		return fmt.Errorf("mint arguments: %w", ErrInvalidPayload)
	}

	asset := model.ERC721(token, tokenID)
	if a.ledger.TotalIssuance(st, asset).Sign() != 0 {
		return fmt.Errorf("%s: %w", asset, ErrTokenExists)
	}
	return a.ledger.Credit(st, asset, model.AccountID(recipient), one)
}

func (a *ERC721App) Burn(st state.Store, ch model.ChannelID, origin model.AccountID, token common.Address, tokenID *big.Int, recipient common.Address) error {
	out, err := a.channels.get(ch)
	if err != nil {
		return err
	}
	if err := a.ledger.Debit(st, model.ERC721(token, tokenID), origin, one); err != nil {
		return err
	}
	payload, err := erc721Contract.Pack("unlock", token, tokenID, [32]byte(origin), recipient)
	if err != nil {
		return err
	}
	return out.Enqueue(st, origin, a.address, payload)
}
