// Package config loads and validates the YAML scenario file the clpool
// command runs: one pool, one funded wallet, and an ordered list of mints.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/defistate/clpool-go/tickmath"
)

type TokenConfig struct {
	Address  string `yaml:"address"`
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

type PoolConfig struct {
	Address string      `yaml:"address"`
	Token0  TokenConfig `yaml:"token0"`
	Token1  TokenConfig `yaml:"token1"`

	// SqrtPriceX96 is the initial Q64.96 sqrt price as a decimal string.
	SqrtPriceX96 string `yaml:"sqrtPriceX96"`
	// Tick is the initial tick. When omitted it is derived from
	// SqrtPriceX96.
	Tick *int64 `yaml:"tick,omitempty"`
}

type WalletConfig struct {
	Address string `yaml:"address"`
	// Balance0 and Balance1 are the wallet's starting holdings of each
	// token, as decimal strings.
	Balance0 string `yaml:"balance0"`
	Balance1 string `yaml:"balance1"`
}

type MintConfig struct {
	LowerTick int64  `yaml:"lowerTick"`
	UpperTick int64  `yaml:"upperTick"`
	Liquidity string `yaml:"liquidity"`
}

type ScenarioConfig struct {
	Pool   PoolConfig   `yaml:"pool"`
	Wallet WalletConfig `yaml:"wallet"`
	Mints  []MintConfig `yaml:"mints"`
}

func LoadConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *ScenarioConfig) validate() error {
	for name, addr := range map[string]string{
		"pool.address":        c.Pool.Address,
		"pool.token0.address": c.Pool.Token0.Address,
		"pool.token1.address": c.Pool.Token1.Address,
		"wallet.address":      c.Wallet.Address,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%s: invalid address %q", name, addr)
		}
	}
	if common.HexToAddress(c.Pool.Token0.Address) == common.HexToAddress(c.Pool.Token1.Address) {
		return errors.New("pool: token0 and token1 must differ")
	}

	sqrtPrice, err := parsePositive("pool.sqrtPriceX96", c.Pool.SqrtPriceX96)
	if err != nil {
		return err
	}
	if c.Pool.Tick != nil {
		if *c.Pool.Tick < tickmath.MinTick || *c.Pool.Tick > tickmath.MaxTick {
			return fmt.Errorf("pool.tick %d: %w", *c.Pool.Tick, tickmath.ErrTickOutOfBounds)
		}
	} else if _, err := tickmath.TickAtSqrtRatio(sqrtPrice); err != nil {
		return fmt.Errorf("pool.sqrtPriceX96: %w", err)
	}

	for name, amount := range map[string]string{
		"wallet.balance0": c.Wallet.Balance0,
		"wallet.balance1": c.Wallet.Balance1,
	} {
		if _, err := parsePositive(name, amount); err != nil {
			return err
		}
	}

	if len(c.Mints) == 0 {
		return errors.New("mints: at least one mint is required")
	}
	for i, m := range c.Mints {
		if m.LowerTick >= m.UpperTick {
			return fmt.Errorf("mints[%d]: lower tick %d must be below upper tick %d", i, m.LowerTick, m.UpperTick)
		}
		if _, err := parsePositive(fmt.Sprintf("mints[%d].liquidity", i), m.Liquidity); err != nil {
			return err
		}
	}
	return nil
}

// SqrtPrice returns the parsed initial sqrt price.
func (c *PoolConfig) SqrtPrice() *big.Int {
	return mustBig(c.SqrtPriceX96)
}

// InitialTick returns the configured tick, deriving it from the sqrt price
// when the scenario omits it.
func (c *PoolConfig) InitialTick() (int64, error) {
	if c.Tick != nil {
		return *c.Tick, nil
	}
	return tickmath.TickAtSqrtRatio(c.SqrtPrice())
}

// LiquidityAmount returns the parsed liquidity of one mint step.
func (m *MintConfig) LiquidityAmount() *big.Int {
	return mustBig(m.Liquidity)
}

// Balances returns the wallet's parsed starting holdings.
func (c *WalletConfig) Balances() (balance0, balance1 *big.Int) {
	return mustBig(c.Balance0), mustBig(c.Balance1)
}

func parsePositive(name, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid decimal %q", name, value)
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%s: must be positive, got %s", name, value)
	}
	return n, nil
}

// mustBig re-parses a value validate already accepted.
func mustBig(value string) *big.Int {
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("config: unvalidated value " + value)
	}
	return n
}
