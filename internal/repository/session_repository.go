package repository

import (
	"context"
	"fmt"
	"time"

	"hotelchain/internal/recommend"
	"hotelchain/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var sessionColumns = []string{
	"id", "user_id", "session_id", "search_criteria", "preferences", "user_profile",
	"recommendations", "ai_insights", "user_interactions", "performance_metrics",
	"generated_at", "created_at", "updated_at",
}

// SessionFilter narrows ListForAnalytics. Zero fields are ignored; the date
// bounds only apply when both are set.
type SessionFilter struct {
	From   *time.Time
	To     *time.Time
	UserID string
}

type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s *recommend.Session) error {
	query := squirrel.Insert("recommendation_sessions").
		Columns(append(sessionColumns, "destination")...).
		Values(s.ID, s.UserID, s.SessionID, s.SearchCriteria, s.Preferences, s.Profile,
			s.Recommendations, s.Insights, orEmpty(s.Interactions), s.Metrics,
			s.GeneratedAt, s.CreatedAt, s.UpdatedAt, s.SearchCriteria.Destination).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*recommend.Session, error) {
	query := squirrel.Select(sessionColumns...).
		From("recommendation_sessions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSession(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListRecentWithInteractions returns the user's latest sessions that have at
// least one tracked interaction.
func (r *SessionRepository) ListRecentWithInteractions(ctx context.Context, userID string, limit int) ([]*recommend.Session, error) {
	return r.list(ctx, recentWithInteractionsQuery(userID, limit))
}

func recentWithInteractionsQuery(userID string, limit int) squirrel.SelectBuilder {
	return squirrel.Select(sessionColumns...).
		From("recommendation_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		Where("jsonb_array_length(user_interactions) > 0").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

// ListSince returns sessions created at or after since. A non-empty
// destination keeps sessions whose searched destination contains it.
func (r *SessionRepository) ListSince(ctx context.Context, since time.Time, destination string) ([]*recommend.Session, error) {
	return r.list(ctx, sinceQuery(since, destination))
}

func sinceQuery(since time.Time, destination string) squirrel.SelectBuilder {
	query := squirrel.Select(sessionColumns...).
		From("recommendation_sessions").
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if destination != "" {
		query = query.Where(squirrel.ILike{"destination": containsPattern(destination)})
	}
	return query
}

func (r *SessionRepository) ListForAnalytics(ctx context.Context, f SessionFilter) ([]*recommend.Session, error) {
	return r.list(ctx, analyticsQuery(f))
}

func analyticsQuery(f SessionFilter) squirrel.SelectBuilder {
	query := squirrel.Select(sessionColumns...).
		From("recommendation_sessions").
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if f.From != nil && f.To != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *f.From}).
			Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	if f.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": f.UserID})
	}
	return query
}

// Track loads the session under a row lock, lets fn mutate it and writes the
// interaction log and metrics back in the same transaction. Concurrent
// trackers of one session are serialized by the lock.
func (r *SessionRepository) Track(ctx context.Context, id uuid.UUID, fn func(*recommend.Session) error) (*recommend.Session, error) {
	var tracked *recommend.Session

	err := postgres.InTx(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := lockSessionQuery(id).ToSql()
		if err != nil {
			return err
		}

		s, err := scanSession(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return notFound(err)
		}

		if err := fn(s); err != nil {
			return err
		}

		sql, args, err = squirrel.Update("recommendation_sessions").
			Set("user_interactions", orEmpty(s.Interactions)).
			Set("performance_metrics", s.Metrics).
			Set("updated_at", s.UpdatedAt).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to store interaction: %w", err)
		}

		tracked = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tracked, nil
}

func lockSessionQuery(id uuid.UUID) squirrel.SelectBuilder {
	return squirrel.Select(sessionColumns...).
		From("recommendation_sessions").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *SessionRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*recommend.Session, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*recommend.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*recommend.Session, error) {
	var (
		s  recommend.Session
		id uuid.UUID
	)
	if err := row.Scan(
		&id, &s.UserID, &s.SessionID, &s.SearchCriteria, &s.Preferences, &s.Profile,
		&s.Recommendations, &s.Insights, &s.Interactions, &s.Metrics,
		&s.GeneratedAt, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.ID = id.String()
	return &s, nil
}

// orEmpty keeps a nil log from being stored as JSON null.
func orEmpty(in []recommend.Interaction) []recommend.Interaction {
	if in == nil {
		return []recommend.Interaction{}
	}
	return in
}
