// Package token is an in-memory fungible-token ledger. It is the concrete
// stand-in for the external asset ledgers the pool settles against: the pool
// core itself only ever queries balances, while mint callbacks use Transfer
// to deliver the owed amounts.
package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Token is one asset: metadata plus an address-keyed balance ledger.
type Token struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8

	balances map[common.Address]*big.Int
}

func New(address common.Address, name, symbol string, decimals uint8) *Token {
	return &Token{
		Address:  address,
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		balances: make(map[common.Address]*big.Int),
	}
}

// BalanceOf returns a copy of owner's balance, zero for unknown owners.
func (t *Token) BalanceOf(owner common.Address) *big.Int {
	balance, exists := t.balances[owner]
	if !exists {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// Mint credits amount to the recipient out of thin air.
func (t *Token) Mint(to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	t.credit(to, amount)
	return nil
}

// Transfer moves amount from one owner to another. Overdrafts fail with
// ErrInsufficientBalance and leave both balances untouched.
func (t *Token) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	balance, exists := t.balances[from]
	if !exists || balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s %s, needs %s",
			ErrInsufficientBalance, from, t.BalanceOf(from), t.Symbol, amount)
	}

	balance.Sub(balance, amount)
	t.credit(to, amount)
	return nil
}

func (t *Token) credit(to common.Address, amount *big.Int) {
	balance, exists := t.balances[to]
	if !exists {
		balance = new(big.Int)
		t.balances[to] = balance
	}
	balance.Add(balance, amount)
}
