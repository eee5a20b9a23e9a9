package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ad-campaign-builder/internal/builder"
	"ad-campaign-builder/internal/config"
	"ad-campaign-builder/internal/keywords"
	"ad-campaign-builder/internal/validate"
)

type Store struct {
	pool *pgxpool.Pool
}

// BlueprintRow is one saved editing configuration: the campaign pattern,
// its ad groups and any keyword rules, serialized as one JSONB document.
type BlueprintRow struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	Campaign     builder.CampaignConfig      `json:"campaign"`
	AdGroups     []builder.AdGroupDefinition `json:"ad_groups"`
	KeywordRules []keywords.Rule             `json:"keyword_rules,omitempty"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ColumnSetRow is a named set of column descriptors for a known data feed.
type ColumnSetRow struct {
	Name    string                      `json:"name"`
	Columns []validate.ColumnDescriptor `json:"columns"`
}

func New(ctx context.Context, cfg config.Config) (*Store, error) {
	dsn := cfg.DSN()
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres DSN: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.Postgres.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Postgres.MaxIdleConns)
	poolCfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SaveBlueprint upserts one blueprint by id.
func (s *Store) SaveBlueprint(ctx context.Context, bp BlueprintRow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc, err := json.Marshal(bp)
	if err != nil {
		return fmt.Errorf("marshal blueprint: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO blueprints (id, name, definition, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, definition = EXCLUDED.definition, updated_at = now()
	`, bp.ID, bp.Name, doc)
	if err != nil {
		return fmt.Errorf("upsert blueprint: %w", err)
	}
	return nil
}

// LoadBlueprints loads every saved blueprint, newest first.
func (s *Store) LoadBlueprints(ctx context.Context) ([]BlueprintRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT definition, updated_at
		FROM blueprints
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query blueprints: %w", err)
	}
	defer rows.Close()

	var out []BlueprintRow
	for rows.Next() {
		var (
			doc       []byte
			updatedAt time.Time
		)
		if err := rows.Scan(&doc, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan blueprint: %w", err)
		}
		var bp BlueprintRow
		if err := json.Unmarshal(doc, &bp); err != nil {
			return nil, fmt.Errorf("decode blueprint: %w", err)
		}
		bp.UpdatedAt = updatedAt
		out = append(out, bp)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// LoadColumnSets loads the named column-descriptor sets used for
// validating templates against known feeds.
func (s *Store) LoadColumnSets(ctx context.Context) ([]ColumnSetRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT name, columns
		FROM column_sets
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query column sets: %w", err)
	}
	defer rows.Close()

	var out []ColumnSetRow
	for rows.Next() {
		var (
			name string
			doc  []byte
		)
		if err := rows.Scan(&name, &doc); err != nil {
			return nil, fmt.Errorf("scan column set: %w", err)
		}
		cs := ColumnSetRow{Name: name}
		if err := json.Unmarshal(doc, &cs.Columns); err != nil {
			return nil, fmt.Errorf("decode column set %s: %w", name, err)
		}
		out = append(out, cs)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (s *Store) ListenChannel() string {
	return "blueprint_change"
}

func (s *Store) PgxPool() *pgxpool.Pool {
	if s.pool == nil {
		panic(errors.New("pgx pool is nil"))
	}
	return s.pool
}
