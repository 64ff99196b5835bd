package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is an alternative Store backend for deployments that already
// run Postgres. Same contract as FileStore: last-writer-wins per user.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresPool creates and verifies a pgxpool connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the preferences table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id                TEXT PRIMARY KEY,
			categories             TEXT[] NOT NULL DEFAULT '{}',
			locations              TEXT[] NOT NULL DEFAULT '{}',
			companies              TEXT[] NOT NULL DEFAULT '{}',
			experience_levels      TEXT[] NOT NULL DEFAULT '{}',
			salary_ranges          TEXT[] NOT NULL DEFAULT '{}',
			work_arrangements      TEXT[] NOT NULL DEFAULT '{}',
			priority_companies     TEXT[] NOT NULL DEFAULT '{}',
			priority_categories    TEXT[] NOT NULL DEFAULT '{}',
			priority_salary_min    INTEGER NOT NULL DEFAULT 0,
			notification_frequency TEXT NOT NULL DEFAULT 'immediate',
			is_active              BOOLEAN NOT NULL DEFAULT TRUE,
			created_at             TIMESTAMPTZ NOT NULL,
			updated_at             TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("creating user_preferences table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*PreferenceSet, error) {
	set := &PreferenceSet{UserID: userID}

	err := s.pool.QueryRow(ctx, `
		SELECT categories, locations, companies, experience_levels,
		       salary_ranges, work_arrangements, priority_companies,
		       priority_categories, priority_salary_min,
		       notification_frequency, is_active, created_at, updated_at
		FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(
		&set.Categories, &set.Locations, &set.Companies, &set.ExperienceLevels,
		&set.SalaryRanges, &set.WorkArrangements, &set.PriorityCompanies,
		&set.PriorityCategories, &set.PrioritySalaryMin,
		&set.NotificationFrequency, &set.IsActive, &set.CreatedAt, &set.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading preferences for %s: %w", userID, err)
	}

	return set, nil
}

func (s *PostgresStore) Save(ctx context.Context, set *PreferenceSet) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_preferences (
			user_id, categories, locations, companies, experience_levels,
			salary_ranges, work_arrangements, priority_companies,
			priority_categories, priority_salary_min,
			notification_frequency, is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (user_id) DO UPDATE SET
			categories = EXCLUDED.categories,
			locations = EXCLUDED.locations,
			companies = EXCLUDED.companies,
			experience_levels = EXCLUDED.experience_levels,
			salary_ranges = EXCLUDED.salary_ranges,
			work_arrangements = EXCLUDED.work_arrangements,
			priority_companies = EXCLUDED.priority_companies,
			priority_categories = EXCLUDED.priority_categories,
			priority_salary_min = EXCLUDED.priority_salary_min,
			notification_frequency = EXCLUDED.notification_frequency,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		set.UserID, set.Categories, set.Locations, set.Companies,
		set.ExperienceLevels, set.SalaryRanges, set.WorkArrangements,
		set.PriorityCompanies, set.PriorityCategories, set.PrioritySalaryMin,
		set.NotificationFrequency, set.IsActive, set.CreatedAt, set.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving preferences for %s: %w", set.UserID, err)
	}
	return nil
}

func (s *PostgresStore) ActiveUsers(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM user_preferences WHERE is_active ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing active users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
