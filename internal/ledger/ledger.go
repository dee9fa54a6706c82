package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

var (
	ErrBalanceOverflow     = errors.New("ledger: balance overflow")
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrInvalidAmount       = errors.New("ledger: invalid amount")
)

// Ledger keeps balances per (asset, account) bounded to 256 bits, plus the
// total issuance of every asset. It does not check provenance: callers are
// the bridge applications acting on verified messages.
type Ledger struct {
	logger logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Ledger {
	return &Ledger{logger: logger}
}

func (l *Ledger) Balance(st state.Store, asset model.AssetID, account model.AccountID) *big.Int {
	return readAmount(st, balanceKey(asset, account))
}

// Exists reports whether the account ever held the asset. Entries stay
// after being debited to zero.
func (l *Ledger) Exists(st state.Store, asset model.AssetID, account model.AccountID) bool {
	return st.Has(balanceKey(asset, account))
}

func (l *Ledger) TotalIssuance(st state.Store, asset model.AssetID) *big.Int {
	return readAmount(st, issuanceKey(asset))
}

// Credit mints amount of asset to account
func (l *Ledger) Credit(st state.Store, asset model.AssetID, account model.AccountID, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	balance := new(big.Int).Add(l.Balance(st, asset, account), amount)
	if balance.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("credit %s to %s: %w", amount, account, ErrBalanceOverflow)
	}
	issuance := new(big.Int).Add(l.TotalIssuance(st, asset), amount)
	if issuance.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("issue %s of %s: %w", amount, asset, ErrBalanceOverflow)
	}

	writeAmount(st, balanceKey(asset, account), balance)
	writeAmount(st, issuanceKey(asset), issuance)

	l.logger.WithFields(logrus.Fields{
		"asset":   asset.String(),
		"account": account.String(),
		"amount":  amount.String(),
	}).Debug("Credit")
	return nil
}

// Debit burns amount of asset from account
func (l *Ledger) Debit(st state.Store, asset model.AssetID, account model.AccountID, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	balance := l.Balance(st, asset, account)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("debit %s from %s holding %s: %w", amount, account, balance, ErrInsufficientBalance)
	}
	balance.Sub(balance, amount)
	issuance := new(big.Int).Sub(l.TotalIssuance(st, asset), amount)
	if issuance.Sign() < 0 {
		issuance.SetUint64(0)
	}

	writeAmount(st, balanceKey(asset, account), balance)
	writeAmount(st, issuanceKey(asset), issuance)

	l.logger.WithFields(logrus.Fields{
		"asset":   asset.String(),
		"account": account.String(),
		"amount":  amount.String(),
	}).Debug("Debit")
	return nil
}

// Transfer moves amount between two accounts, issuance is unchanged
func (l *Ledger) Transfer(st state.Store, asset model.AssetID, from, to model.AccountID, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	fromBalance := l.Balance(st, asset, from)
	if fromBalance.Cmp(amount) < 0 {
		return fmt.Errorf("transfer %s from %s holding %s: %w", amount, from, fromBalance, ErrInsufficientBalance)
	}
	if from == to {
		return nil
	}
	toBalance := new(big.Int).Add(l.Balance(st, asset, to), amount)
	if toBalance.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("transfer %s to %s: %w", amount, to, ErrBalanceOverflow)
	}

	writeAmount(st, balanceKey(asset, from), fromBalance.Sub(fromBalance, amount))
	writeAmount(st, balanceKey(asset, to), toBalance)

	l.logger.WithFields(logrus.Fields{
		"asset":  asset.String(),
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount.String(),
	}).Debug("Transfer")
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 || amount.Cmp(math.MaxBig256) > 0 {
		return fmt.Errorf("%v: %w", amount, ErrInvalidAmount)
	}
	return nil
}

func readAmount(st state.Store, key []byte) *big.Int {
	v := st.Get(key)
	if len(v) == 0 {
		return new(big.Int)
	}
	amount, ok := new(big.Int).SetString(string(v), 10)
	if !ok {
		return new(big.Int)
	}
	return amount
}

func writeAmount(st state.Store, key []byte, amount *big.Int) {
	st.Put(key, []byte(amount.String()))
}

func balanceKey(asset model.AssetID, account model.AccountID) []byte {
	return []byte(fmt.Sprintf("ledger-balance-%s-%s", asset, account))
}

func issuanceKey(asset model.AssetID) []byte {
	return []byte(fmt.Sprintf("ledger-issuance-%s", asset))
}
