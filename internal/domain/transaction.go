package domain

// Transaction type discriminators as written by the recorder.
const (
	TxTypeSwapToken1      = "swap_token_1"
	TxTypeSwapToken2      = "swap_token_2"
	TxTypeAddLiquidity    = "add_liquidity"
	TxTypeRemoveLiquidity = "remove_liquidity"
)

// Transaction is one row of the on-chain transaction ledger.
// Amounts are canonical decimal strings as stored.
type Transaction struct {
	Ts           int64  `json:"timestamp"`
	OpHash       string `json:"opHash"`
	Pool         string `json:"pool"`
	Account      string `json:"account"`
	Type         string `json:"type"`
	Token1Amount string `json:"token1Amount"`
	Token2Amount string `json:"token2Amount"`
	Value        string `json:"value"`
}
