package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/vendaflow/vendaflow/internal/shared"
)

// SessionRepository persists refresh sessions.
type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	FindByToken(ctx context.Context, token string) (Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	pool  *pgxpool.Pool
	cache *redis.Client
	log   *slog.Logger
}

// NewSessionRepository constructs the PostgreSQL session store. The
// Redis client is optional; when present token lookups go through a
// read-through cache.
func NewSessionRepository(pool *pgxpool.Pool, cache *redis.Client, log *slog.Logger) SessionRepository {
	return &sessionRepository{pool: pool, cache: cache, log: log}
}

func cacheKey(token string) string {
	return "session:" + token
}

func (r *sessionRepository) Create(ctx context.Context, session Session) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sessions (id, token, user_id, company_id, user_agent, ip_address, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		session.ID, session.Token, session.UserID, session.CompanyID,
		session.UserAgent, session.IPAddress, session.ExpiresAt, session.CreatedAt)
	return err
}

// FindByToken returns the session for a refresh token. Expired rows are
// returned as is; expiry policy belongs to the service layer.
func (r *sessionRepository) FindByToken(ctx context.Context, token string) (Session, error) {
	if s, ok := r.cacheGet(ctx, token); ok {
		return s, nil
	}

	var s Session
	err := r.pool.QueryRow(ctx, `SELECT id, token, user_id, company_id, user_agent, ip_address, expires_at, created_at
FROM sessions WHERE token = $1`, token).
		Scan(&s.ID, &s.Token, &s.UserID, &s.CompanyID, &s.UserAgent, &s.IPAddress, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, shared.Unauthorized("Invalid refresh token")
		}
		return Session{}, err
	}
	r.cacheSet(ctx, s)
	return s, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return err
	}
	if r.cache != nil {
		if err := r.cache.Del(ctx, cacheKey(token)).Err(); err != nil {
			r.log.Warn("session cache delete failed", "error", err)
		}
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *sessionRepository) cacheGet(ctx context.Context, token string) (Session, bool) {
	if r.cache == nil {
		return Session{}, false
	}
	raw, err := r.cache.Get(ctx, cacheKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("session cache read failed", "error", err)
		}
		return Session{}, false
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, false
	}
	s.Token = token
	return s, true
}

func (r *sessionRepository) cacheSet(ctx context.Context, s Session) {
	if r.cache == nil {
		return
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if ttl > time.Hour {
		ttl = time.Hour
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(s.Token), raw, ttl).Err(); err != nil {
		r.log.Warn("session cache write failed", "error", err)
	}
}
