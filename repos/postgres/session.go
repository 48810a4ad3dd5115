package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/juho05/jobmatch/repos"
)

type sessionRepository struct {
	db querier
}

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (d *DB) NewSessionRepository() repos.SessionRepository {
	return &sessionRepository{
		db: d.pool,
	}
}

func (s *sessionRepository) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *sessionRepository) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *sessionRepository) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *sessionRepository) All() (map[string][]byte, error) {
	return s.AllCtx(context.Background())
}

func (s *sessionRepository) DeleteCtx(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

func (s *sessionRepository) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(ctx, "SELECT data FROM sessions WHERE token = $1 AND expires > $2", token, time.Now().UnixMilli()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *sessionRepository) CommitCtx(ctx context.Context, token string, data []byte, expires time.Time) error {
	_, err := s.db.Exec(ctx, `INSERT INTO sessions (token, data, expires) VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET data = EXCLUDED.data, expires = EXCLUDED.expires`, token, data, expires.UnixMilli())
	return err
}

func (s *sessionRepository) AllCtx(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.Query(ctx, "SELECT token, data FROM sessions WHERE expires > $1", time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make(map[string][]byte)
	for rows.Next() {
		var token string
		var data []byte
		if err = rows.Scan(&token, &data); err != nil {
			return nil, err
		}
		sessions[token] = data
	}
	return sessions, rows.Err()
}

func (s *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE expires <= $1", time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
