package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/domain"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/observability"
	"github.com/Plenty-DeFi/plenty-analytics-indexer/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

const txColumns = `ts, hash, pool, account, type, token_1_amount::text, token_2_amount::text, value::text`

// ByPool returns transactions involving the given pool, oldest first.
func (s *TransactionStore) ByPool(ctx context.Context, pool string, limit int) ([]domain.Transaction, error) {
	defer observability.TimeQuery("transactions_by_pool")()

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE pool = $1
		ORDER BY ts ASC
		LIMIT $2
	`, txColumns)

	rows, err := s.pool.Query(ctx, query, pool, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions by pool: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ByToken returns transactions of every pool containing the token in either slot.
func (s *TransactionStore) ByToken(ctx context.Context, token string, limit int) ([]domain.Transaction, error) {
	defer observability.TimeQuery("transactions_by_token")()

	query := `
		SELECT t.ts, t.hash, t.pool, t.account, t.type,
			t.token_1_amount::text, t.token_2_amount::text, t.value::text
		FROM transactions t
		JOIN pools p ON t.pool = p.pool
		WHERE p.token_1 = $1 OR p.token_2 = $1
		ORDER BY t.ts ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, token, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions by token: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ByAccount returns an account's swap or add-liquidity transactions.
func (s *TransactionStore) ByAccount(ctx context.Context, account string, swaps bool, limit int) ([]domain.Transaction, error) {
	defer observability.TimeQuery("transactions_by_account")()

	typeFilter := `type = $3`
	args := []any{account, limit, domain.TxTypeAddLiquidity}
	if swaps {
		typeFilter = `(type = $3 OR type = $4)`
		args = []any{account, limit, domain.TxTypeSwapToken1, domain.TxTypeSwapToken2}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE account = $1 AND %s
		ORDER BY ts ASC
		LIMIT $2
	`, txColumns, typeFilter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions by account: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Latest returns the first recorded transactions up to limit.
func (s *TransactionStore) Latest(ctx context.Context, limit int) ([]domain.Transaction, error) {
	defer observability.TimeQuery("transactions_latest")()

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		ORDER BY ts ASC
		LIMIT $1
	`, txColumns)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction

	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.Ts,
			&tx.OpHash,
			&tx.Pool,
			&tx.Account,
			&tx.Type,
			&tx.Token1Amount,
			&tx.Token2Amount,
			&tx.Value,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
