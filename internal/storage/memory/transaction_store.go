package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu    sync.RWMutex
	pools map[string]domain.Pool
	txs   []domain.Transaction
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		pools: make(map[string]domain.Pool),
	}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// AddPool registers pool membership for the token join.
func (s *TransactionStore) AddPool(p domain.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[p.Address] = p
}

// Add seeds a ledger row.
func (s *TransactionStore) Add(tx domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
}

// filter returns transactions matching keep, ordered by ts ASC, capped at limit.
func (s *TransactionStore) filter(keep func(domain.Transaction) bool, limit int) []domain.Transaction {
	var result []domain.Transaction
	for _, tx := range s.txs {
		if keep(tx) {
			result = append(result, tx)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ts < result[j].Ts
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// ByPool returns transactions involving the given pool.
func (s *TransactionStore) ByPool(_ context.Context, pool string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(tx domain.Transaction) bool {
		return tx.Pool == pool
	}, limit), nil
}

// ByToken returns transactions of pools containing the token in either slot.
func (s *TransactionStore) ByToken(_ context.Context, token string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(tx domain.Transaction) bool {
		p, ok := s.pools[tx.Pool]
		return ok && (p.Token1 == token || p.Token2 == token)
	}, limit), nil
}

// ByAccount returns an account's swap or add-liquidity transactions.
func (s *TransactionStore) ByAccount(_ context.Context, account string, swaps bool, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(tx domain.Transaction) bool {
		if tx.Account != account {
			return false
		}
		if swaps {
			return tx.Type == domain.TxTypeSwapToken1 || tx.Type == domain.TxTypeSwapToken2
		}
		return tx.Type == domain.TxTypeAddLiquidity
	}, limit), nil
}

// Latest returns the first recorded transactions up to limit.
func (s *TransactionStore) Latest(_ context.Context, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(domain.Transaction) bool { return true }, limit), nil
}
