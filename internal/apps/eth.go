package apps

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// ETHApp mints ether locked on the external chain and burns it on the way
// back.
type ETHApp struct {
	address  common.Address
	ledger   *ledger.Ledger
	channels Channels
}

func NewETHApp(address common.Address, ledger *ledger.Ledger, channels Channels) *ETHApp {
	return &ETHApp{address: address, ledger: ledger, channels: channels}
}

func (a *ETHApp) Name() string {
	return "eth"
}

func (a *ETHApp) Address() common.Address {
	return a.address
}

func (a *ETHApp) Handle(st state.Store, id model.MessageID, payload []byte) error {
	values, err := unpackCall(ethContract, "mint", payload)
	if err != nil {
		return err
	}
	recipient, ok1 := values[1].([32]byte)
	amount, ok2 := values[2].(*big.Int)
	if !ok1 || !ok2 {
		return fmt.Errorf("mint arguments: %w", ErrInvalidPayload)
	}
	return a.ledger.Credit(st, model.ETH(), model.AccountID(recipient), amount)
}

// Burn destroys amount of ether held by origin and asks the external
// contract to unlock it to recipient.
func (a *ETHApp) Burn(st state.Store, ch model.ChannelID, origin model.AccountID, recipient common.Address, amount *big.Int) error {
	out, err := a.channels.get(ch)
	if err != nil {
		return err
	}
	if err := a.ledger.Debit(st, model.ETH(), origin, amount); err != nil {
		return err
	}
	payload, err := ethContract.Pack("unlock", [32]byte(origin), recipient, amount)
	if err != nil {
		return err
	}
	return out.Enqueue(st, origin, a.address, payload)
}
