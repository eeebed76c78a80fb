package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Contracts is the static token and pool reference data, loaded once at
// startup and read-only for the process lifetime.
type Contracts struct {
	Tokens map[string]TokenInfo `json:"tokens"`
	AMM    map[string]PoolInfo  `json:"amm"`
}

// TokenInfo describes one known token.
type TokenInfo struct {
	Decimals   int `json:"decimals"`
	PriceDepth int `json:"priceDepth"`
}

// PoolInfo describes one AMM pool's ordered token pair.
type PoolInfo struct {
	Token1 string `json:"token1"`
	Token2 string `json:"token2"`
}

// LoadContracts reads and validates the contracts JSON file.
func LoadContracts(path string) (*Contracts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contracts file: %w", err)
	}

	var c Contracts
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse contracts file: %w", err)
	}

	if len(c.Tokens) == 0 {
		return nil, fmt.Errorf("contracts file %s defines no tokens", path)
	}
	for addr, p := range c.AMM {
		if _, ok := c.Tokens[p.Token1]; !ok {
			return nil, fmt.Errorf("pool %s references unknown token %q", addr, p.Token1)
		}
		if _, ok := c.Tokens[p.Token2]; !ok {
			return nil, fmt.Errorf("pool %s references unknown token %q", addr, p.Token2)
		}
	}

	return &c, nil
}

// HasToken reports whether the symbol is a known token.
func (c *Contracts) HasToken(symbol string) bool {
	_, ok := c.Tokens[symbol]
	return ok
}

// HasPool reports whether the address is a known pool.
func (c *Contracts) HasPool(address string) bool {
	_, ok := c.AMM[address]
	return ok
}

// TokenSymbols returns all known token symbols in lexical order.
func (c *Contracts) TokenSymbols() []string {
	symbols := make([]string, 0, len(c.Tokens))
	for s := range c.Tokens {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
