package main

import (
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/defistate/clpool-go/cmd/clpool/config"
	"github.com/defistate/clpool-go/pool"
	"github.com/defistate/clpool-go/token"
)

// poolView is the report printed after the scenario runs.
type poolView struct {
	Slot0            pool.Slot0       `json:"slot0"`
	Liquidity        string           `json:"liquidity"`
	InitializedTicks []int64          `json:"initializedTicks"`
	Balance0         string           `json:"balance0"`
	Balance1         string           `json:"balance1"`
	Mints            []pool.MintEvent `json:"mints"`
}

func main() {
	rootLogHandler := slog.NewJSONHandler(os.Stdout, nil)
	close := func() {
		os.Exit(1)
	}

	rootLogger := slog.New(rootLogHandler)
	prometheusRegistry := prometheus.DefaultRegisterer
	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		close()
	}

	token0 := token.New(
		common.HexToAddress(cfg.Pool.Token0.Address),
		cfg.Pool.Token0.Name, cfg.Pool.Token0.Symbol, cfg.Pool.Token0.Decimals,
	)
	token1 := token.New(
		common.HexToAddress(cfg.Pool.Token1.Address),
		cfg.Pool.Token1.Name, cfg.Pool.Token1.Symbol, cfg.Pool.Token1.Decimals,
	)

	wallet := common.HexToAddress(cfg.Wallet.Address)
	balance0, balance1 := cfg.Wallet.Balances()
	if err := token0.Mint(wallet, balance0); err != nil {
		rootLogger.Error("Failed to fund wallet", "token", token0.Symbol, "error", err)
		close()
	}
	if err := token1.Mint(wallet, balance1); err != nil {
		rootLogger.Error("Failed to fund wallet", "token", token1.Symbol, "error", err)
		close()
	}

	initialTick, err := cfg.Pool.InitialTick()
	if err != nil {
		rootLogger.Error("Failed to derive initial tick", "error", err)
		close()
	}

	p, err := pool.New(pool.Config{
		Address:      common.HexToAddress(cfg.Pool.Address),
		Token0:       token0.Address,
		Token1:       token1.Address,
		Balance0:     token0,
		Balance1:     token1,
		SqrtPriceX96: cfg.Pool.SqrtPrice(),
		Tick:         initialTick,
		Logger:       rootLogger.With("component", "pool"),
		Registry:     prometheusRegistry,
	})
	if err != nil {
		rootLogger.Error("Failed to initialize pool", "error", err)
		close()
	}

	// The callback pays the owed amounts straight out of the wallet.
	payFromWallet := pool.MintCallbackFunc(func(amount0, amount1 *big.Int, _ any) error {
		if amount0.Sign() > 0 {
			if err := token0.Transfer(wallet, p.Address(), amount0); err != nil {
				return err
			}
		}
		if amount1.Sign() > 0 {
			if err := token1.Transfer(wallet, p.Address(), amount1); err != nil {
				return err
			}
		}
		return nil
	})

	for i, m := range cfg.Mints {
		amount0, amount1, err := p.Mint(wallet, m.LowerTick, m.UpperTick, m.LiquidityAmount(), payFromWallet, nil)
		if err != nil {
			rootLogger.Error("Mint failed",
				"step", i,
				"lowerTick", m.LowerTick,
				"upperTick", m.UpperTick,
				"error", err,
			)
			close()
		}
		rootLogger.Info("Mint settled",
			"step", i,
			"amount0", amount0.String(),
			"amount1", amount1.String(),
		)
	}

	view := poolView{
		Slot0:            p.Slot0(),
		Liquidity:        p.Liquidity().String(),
		InitializedTicks: p.InitializedTicks(),
		Balance0:         token0.BalanceOf(p.Address()).String(),
		Balance1:         token1.BalanceOf(p.Address()).String(),
		Mints:            p.MintEvents(),
	}
	report, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		rootLogger.Error("Failed to render pool view", "error", err)
		close()
	}
	os.Stdout.Write(append(report, '\n'))
}

func loadConfig() (*config.ScenarioConfig, error) {
	configPath := flag.String("config", "config.yaml", "Path to the scenario file.")
	flag.Parse()
	log.Printf("Loading scenario from: %s", *configPath)
	return config.LoadConfig(*configPath)
}
