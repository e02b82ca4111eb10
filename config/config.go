package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/paperbroker/market"
)

// Config describes a complete simulated-broker run: the account, the fee
// model, where to journal, and the scripted scenario to execute.
//
// Monetary values are decimal strings, never floats, so configs
// round-trip without drift.
type Config struct {
	Account  AccountConfig `json:"account" yaml:"account"`
	Fees     FeeConfig     `json:"fees" yaml:"fees"`
	Journal  JournalConfig `json:"journal" yaml:"journal"`
	Scenario []Step        `json:"scenario,omitempty" yaml:"scenario,omitempty"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string `json:"id" yaml:"id"`
	Currency string `json:"currency" yaml:"currency"`
	Balance  string `json:"balance" yaml:"balance"`

	// NotionalAssets are extra currency-like assets allowed on the quote
	// side of a pair, beyond the account currency.
	NotionalAssets []string `json:"notional_assets,omitempty" yaml:"notional_assets,omitempty"`
}

// FeeConfig selects the commission model. Model is "zero", "proportional"
// (fee = Rate * notional) or "flat" (Charge per settled order).
type FeeConfig struct {
	Model  string `json:"model" yaml:"model"`
	Rate   string `json:"rate,omitempty" yaml:"rate,omitempty"`
	Charge string `json:"charge,omitempty" yaml:"charge,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	OrdersFile   string `json:"orders_file,omitempty" yaml:"orders_file,omitempty"`
	BalancesFile string `json:"balances_file,omitempty" yaml:"balances_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Step is one scripted action. Action selects which of the remaining
// fields apply:
//
//	set_price: Pair, Price
//	advance:   Advance (a Go duration string like "1m")
//	order:     Side, Pair, one of Units/Notional, optional Limit
//	cancel:    Order (1-based index of a previously placed order step)
type Step struct {
	Action   string `json:"action" yaml:"action"`
	Pair     string `json:"pair,omitempty" yaml:"pair,omitempty"`
	Price    string `json:"price,omitempty" yaml:"price,omitempty"`
	Advance  string `json:"advance,omitempty" yaml:"advance,omitempty"`
	Side     string `json:"side,omitempty" yaml:"side,omitempty"`
	Units    string `json:"units,omitempty" yaml:"units,omitempty"`
	Notional string `json:"notional,omitempty" yaml:"notional,omitempty"`
	Limit    string `json:"limit,omitempty" yaml:"limit,omitempty"`
	Order    int    `json:"order,omitempty" yaml:"order,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	balance, err := decimal.NewFromString(c.Account.Balance)
	if err != nil {
		return fmt.Errorf("account.balance: %w", err)
	}
	if balance.IsNegative() {
		return fmt.Errorf("account.balance must not be negative")
	}

	switch c.Fees.Model {
	case "", "zero":
	case "proportional":
		rate, err := decimal.NewFromString(c.Fees.Rate)
		if err != nil {
			return fmt.Errorf("fees.rate: %w", err)
		}
		if rate.IsNegative() {
			return fmt.Errorf("fees.rate must not be negative")
		}
	case "flat":
		charge, err := decimal.NewFromString(c.Fees.Charge)
		if err != nil {
			return fmt.Errorf("fees.charge: %w", err)
		}
		if charge.IsNegative() {
			return fmt.Errorf("fees.charge must not be negative")
		}
	default:
		return fmt.Errorf("fees.model must be 'zero', 'proportional' or 'flat'")
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.OrdersFile == "" || c.Journal.BalancesFile == "" {
			return fmt.Errorf("journal orders_file and balances_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	orders := 0
	for i, step := range c.Scenario {
		if err := validateStep(step, orders); err != nil {
			return fmt.Errorf("scenario[%d]: %w", i, err)
		}
		if step.Action == "order" {
			orders++
		}
	}
	return nil
}

func validateStep(s Step, ordersSoFar int) error {
	switch s.Action {
	case "set_price":
		if _, err := market.ParsePair(s.Pair); err != nil {
			return err
		}
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return fmt.Errorf("price: %w", err)
		}
		if !price.IsPositive() {
			return fmt.Errorf("price must be positive")
		}
	case "advance":
		d, err := time.ParseDuration(s.Advance)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("advance must not be negative")
		}
	case "order":
		if _, err := market.ParsePair(s.Pair); err != nil {
			return err
		}
		if s.Side != "buy" && s.Side != "sell" {
			return fmt.Errorf("side must be 'buy' or 'sell'")
		}
		if (s.Units == "") == (s.Notional == "") {
			return fmt.Errorf("exactly one of units and notional is required")
		}
		size := s.Units
		if size == "" {
			size = s.Notional
		}
		if _, err := decimal.NewFromString(size); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		if s.Limit != "" {
			if _, err := decimal.NewFromString(s.Limit); err != nil {
				return fmt.Errorf("limit: %w", err)
			}
		}
	case "cancel":
		if s.Order < 1 || s.Order > ordersSoFar {
			return fmt.Errorf("order must reference a previously placed order step")
		}
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

// Default returns a configuration with sensible defaults: a 1000 USD
// account, zero fees, CSV journaling and a small demo scenario.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  "1000",
		},
		Fees: FeeConfig{
			Model: "zero",
		},
		Journal: JournalConfig{
			Type:         "csv",
			OrdersFile:   "./orders.csv",
			BalancesFile: "./balances.csv",
		},
		Scenario: []Step{
			{Action: "set_price", Pair: "AAPL/USD", Price: "276.39"},
			{Action: "order", Side: "buy", Pair: "AAPL/USD", Notional: "100"},
			{Action: "order", Side: "buy", Pair: "AAPL/USD", Notional: "100", Limit: "250"},
			{Action: "set_price", Pair: "AAPL/USD", Price: "240"},
			{Action: "advance", Advance: "1m"},
		},
	}
}
