package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage/memory"
)

func seedLedger(txs *memory.TransactionStore) {
	txs.AddPool(domain.Pool{Address: "POOL1", Token1: "X", Token2: "Y"})
	txs.Add(domain.Transaction{Ts: 100, OpHash: "op1", Pool: "POOL1", Account: "alice", Type: domain.TxTypeSwapToken1})
	txs.Add(domain.Transaction{Ts: 200, OpHash: "op2", Pool: "POOL1", Account: "alice", Type: domain.TxTypeAddLiquidity})
	txs.Add(domain.Transaction{Ts: 300, OpHash: "op3", Pool: "POOL1", Account: "bob", Type: domain.TxTypeSwapToken2})
}

func decodeTxs(t *testing.T, body []byte) []domain.Transaction {
	t.Helper()
	var txs []domain.Transaction
	if err := json.Unmarshal(body, &txs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return txs
}

func TestHandleTransactions_ByPool(t *testing.T) {
	s, _, txs := testServer(t)
	seedLedger(txs)

	rec := get(t, s, "/analytics/transactions?pool=POOL1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeTxs(t, rec.Body.Bytes()); len(got) != 3 {
		t.Errorf("got %d transactions, want 3", len(got))
	}
}

func TestHandleTransactions_UnknownPool(t *testing.T) {
	s, _, _ := testServer(t)

	rec := get(t, s, "/analytics/transactions?pool=NOPE")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error != "Pool does not exist." {
		t.Errorf("error = %q", payload.Error)
	}
}

func TestHandleTransactions_ByToken(t *testing.T) {
	s, _, txs := testServer(t)
	seedLedger(txs)

	rec := get(t, s, "/analytics/transactions?token=X")
	if got := decodeTxs(t, rec.Body.Bytes()); len(got) != 3 {
		t.Errorf("got %d transactions, want 3", len(got))
	}

	rec = get(t, s, "/analytics/transactions?token=NOPE")
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error != "Token does not exist." {
		t.Errorf("error = %q", payload.Error)
	}
}

func TestHandleTransactions_ByAccount(t *testing.T) {
	s, _, txs := testServer(t)
	seedLedger(txs)

	rec := get(t, s, "/analytics/transactions?account=alice&type=swap")
	got := decodeTxs(t, rec.Body.Bytes())
	if len(got) != 1 || got[0].OpHash != "op1" {
		t.Errorf("swaps = %+v, want op1", got)
	}

	rec = get(t, s, "/analytics/transactions?account=alice&type=liquidity")
	got = decodeTxs(t, rec.Body.Bytes())
	if len(got) != 1 || got[0].OpHash != "op2" {
		t.Errorf("liquidity = %+v, want op2", got)
	}
}

func TestHandleTransactions_Latest(t *testing.T) {
	s, _, txs := testServer(t)
	seedLedger(txs)

	rec := get(t, s, "/analytics/transactions")
	if got := decodeTxs(t, rec.Body.Bytes()); len(got) != 3 {
		t.Errorf("got %d transactions, want 3", len(got))
	}
}

func TestHandleTransactions_EmptyResult(t *testing.T) {
	s, _, _ := testServer(t)

	rec := get(t, s, "/analytics/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// An empty ledger serializes as an empty array, never null.
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want []", body)
	}
}
