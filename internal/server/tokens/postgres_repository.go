package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *Token) error {
	query :=
		`INSERT INTO action_tokens (token, user_id, kind, expires_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, t.Token, t.UserID, string(t.Kind), t.ExpiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string, kind Kind) (*Token, error) {
	// deletion and lookup are one statement so a token can only ever be
	// redeemed once
	query :=
		`DELETE FROM action_tokens
		 WHERE token = $1 AND kind = $2
		 RETURNING user_id, expires_at
		 `

	t := &Token{Token: token, Kind: kind}
	err := r.db.QueryRowContext(ctx, query, token, string(kind)).Scan(&t.UserID, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	if time.Now().After(t.ExpiresAt) {
		return nil, common.ErrTokenExpired
	}

	return t, nil
}
