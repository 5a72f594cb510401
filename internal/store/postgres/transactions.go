package postgres

import (
	"context"
	"encoding/json"
	"time"

	"paybridge/internal/gateway"

	"github.com/google/uuid"
)

// TransactionRow is one recorded gateway outcome.
type TransactionRow struct {
	ID            string          `json:"id"`
	Gateway       string          `json:"gateway"`
	Action        string          `json:"action"`
	Amount        int64           `json:"amount"`
	Currency      string          `json:"currency"`
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	Authorization *string         `json:"authorization"`
	RawResponse   json.RawMessage `json:"rawResponse,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// RecordTransaction persists the outcome of a dispatched operation. The raw
// provider response is kept verbatim for reconciliation and support.
func (r *Repo) RecordTransaction(ctx context.Context, gw string, action gateway.Action, amount int64, currency string, res *gateway.TransactionResult) (string, error) {
	id := uuid.NewString()

	var auth *string
	if res.Authorization != "" {
		auth = &res.Authorization
	}

	raw, err := json.Marshal(res.Raw)
	if err != nil {
		raw = []byte("{}")
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO transactions(
			id, gateway, action, amount, currency, success, message,
			authorization_handle, raw_response
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, gw, string(action), amount, currency, res.Success, res.Message, auth, raw,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListTransactions returns the most recent recorded transactions.
func (r *Repo) ListTransactions(ctx context.Context, limit int) ([]TransactionRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `SELECT
			id, gateway, action, amount, currency, success, message,
			authorization_handle, raw_response, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(
			&t.ID, &t.Gateway, &t.Action, &t.Amount, &t.Currency, &t.Success,
			&t.Message, &t.Authorization, &t.RawResponse, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
