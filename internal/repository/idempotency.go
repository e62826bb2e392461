package repository

import (
	"context"
)

type IdempotencyKeyRow struct {
	IdempotencyKey string
	RequestHash    string
	Method         string
	Path           string
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	InProgress     bool
}

const idempotencyColumns = `idempotency_key, request_hash, method, path, response_status, response_body, content_type, in_progress`

func (q *Queries) GetIdempotencyKey(ctx context.Context, key string) (IdempotencyKeyRow, error) {
	var row IdempotencyKeyRow
	query := `SELECT ` + idempotencyColumns + ` FROM idempotency_keys WHERE idempotency_key = $1`
	err := q.db.QueryRow(ctx, query, key).Scan(&row.IdempotencyKey, &row.RequestHash, &row.Method,
		&row.Path, &row.ResponseStatus, &row.ResponseBody, &row.ContentType, &row.InProgress)
	return row, err
}

type ReserveIdempotencyKeyParams struct {
	IdempotencyKey string
	RequestHash    string
	Method         string
	Path           string
}

// ReserveIdempotencyKey inserts a new in-progress key. It returns pgx.ErrNoRows
// when the key already exists.
func (q *Queries) ReserveIdempotencyKey(ctx context.Context, arg ReserveIdempotencyKeyParams) (IdempotencyKeyRow, error) {
	var row IdempotencyKeyRow
	query := `INSERT INTO idempotency_keys (idempotency_key, request_hash, method, path, response_status, response_body, content_type, in_progress, created_at)
		VALUES ($1, $2, $3, $4, 0, NULL, '', TRUE, NOW())
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING ` + idempotencyColumns
	err := q.db.QueryRow(ctx, query, arg.IdempotencyKey, arg.RequestHash, arg.Method, arg.Path).
		Scan(&row.IdempotencyKey, &row.RequestHash, &row.Method, &row.Path,
			&row.ResponseStatus, &row.ResponseBody, &row.ContentType, &row.InProgress)
	return row, err
}

type FinalizeIdempotencyKeyParams struct {
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	IdempotencyKey string
	RequestHash    string
}

func (q *Queries) FinalizeIdempotencyKey(ctx context.Context, arg FinalizeIdempotencyKeyParams) (IdempotencyKeyRow, error) {
	var row IdempotencyKeyRow
	query := `UPDATE idempotency_keys
		SET response_status = $1, response_body = $2, content_type = $3, in_progress = FALSE
		WHERE idempotency_key = $4 AND request_hash = $5
		RETURNING ` + idempotencyColumns
	err := q.db.QueryRow(ctx, query, arg.ResponseStatus, arg.ResponseBody, arg.ContentType,
		arg.IdempotencyKey, arg.RequestHash).
		Scan(&row.IdempotencyKey, &row.RequestHash, &row.Method, &row.Path,
			&row.ResponseStatus, &row.ResponseBody, &row.ContentType, &row.InProgress)
	return row, err
}
