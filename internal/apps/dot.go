package apps

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/internal/ledger"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

// DefaultDOTSovereign is the account holding locked native tokens
var DefaultDOTSovereign = model.AccountID{'m', 'o', 'd', 'l', 's', '/', 'd', 'o', 't', 'a', 'p', 'p'}

// DOTApp locks the native asset in a sovereign account while a wrapped
// version circulates on the external chain.
type DOTApp struct {
	address   common.Address
	sovereign model.AccountID
	ledger    *ledger.Ledger
	channels  Channels
}

func NewDOTApp(address common.Address, sovereign model.AccountID, ledger *ledger.Ledger, channels Channels) *DOTApp {
	return &DOTApp{address: address, sovereign: sovereign, ledger: ledger, channels: channels}
}

func (a *DOTApp) Name() string {
	return "dot"
}

func (a *DOTApp) Address() common.Address {
	return a.address
}

func (a *DOTApp) Sovereign() model.AccountID {
	return a.sovereign
}

// Handle releases native tokens burnt on the external chain
func (a *DOTApp) Handle(st state.Store, id model.MessageID, payload []byte) error {
	values, err := unpackCall(dotContract, "unlock", payload)
	if err != nil {
		return err
	}
	recipient, ok1 := values[1].([32]byte)
	amount, ok2 := values[2].(*big.Int)
	if !ok1 || !ok2 {
		return fmt.Errorf("unlock arguments: %w", ErrInvalidPayload)
	}
	return a.ledger.Transfer(st, model.Native(), a.sovereign, model.AccountID(recipient), amount)
}

func (a *DOTApp) Lock(st state.Store, ch model.ChannelID, origin model.AccountID, recipient common.Address, amount *big.Int) error {
	out, err := a.channels.get(ch)
	if err != nil {
		return err
	}
	if err := a.ledger.Transfer(st, model.Native(), origin, a.sovereign, amount); err != nil {
		return err
	}
	payload, err := dotContract.Pack("mint", [32]byte(origin), recipient, amount)
	if err != nil {
		return err
	}
	return out.Enqueue(st, origin, a.address, payload)
}
