package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"CompanyScout/internal/domain"
	"CompanyScout/internal/ports"
)

// SQLiteRepository archives discovery runs and their ranked leads in SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.LeadRepository = (*SQLiteRepository)(nil)

// OpenSQLite opens the archive at dsn and creates the schema if needed.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// An in-memory database lives only as long as its single connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite exec %s: %w", pragma, err)
		}
	}

	repo := NewSQLiteRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wires an already opened sql.DB.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const schema = `
CREATE TABLE IF NOT EXISTS lead_runs (
	id         TEXT PRIMARY KEY,
	queries    TEXT NOT NULL,
	articles   INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
	run_id          TEXT NOT NULL REFERENCES lead_runs(id),
	position        INTEGER NOT NULL,
	company_name    TEXT NOT NULL,
	source_link     TEXT NOT NULL,
	core_intent     TEXT NOT NULL,
	stage           TEXT NOT NULL,
	timeline        TEXT NOT NULL,
	project_type    TEXT NOT NULL,
	sector          TEXT NOT NULL,
	confidence      TEXT NOT NULL,
	private_sector  INTEGER NOT NULL,
	relevance_score INTEGER NOT NULL,
	article_title   TEXT NOT NULL,
	source          TEXT NOT NULL,
	published       TEXT NOT NULL,
	created_at      DATETIME NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

// Migrate creates the archive tables.
func (r *SQLiteRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveRun stores the run and its ranked leads atomically.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run ports.LeadRun) error {
	if r.db == nil {
		return nil
	}

	queries, err := json.Marshal(run.Queries)
	if err != nil {
		return fmt.Errorf("marshal queries: %w", err)
	}
	now := r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Insert("lead_runs").
		Columns("id", "queries", "articles", "created_at").
		Values(run.ID, string(queries), run.Articles, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	if len(run.Companies) > 0 {
		insert := sq.Insert("leads").Columns(
			"run_id", "position", "company_name", "source_link", "core_intent", "stage", "timeline",
			"project_type", "sector", "confidence", "private_sector", "relevance_score",
			"article_title", "source", "published", "created_at",
		)
		for i, c := range run.Companies {
			insert = insert.Values(
				run.ID, i, c.CompanyName, c.SourceLink, c.CoreIntent, c.Stage, c.Timeline,
				string(c.ProjectType), c.Sector, string(c.Confidence), c.IsPrivateSector, c.RelevanceScore,
				c.ArticleTitle, c.Source, c.Date, now,
			)
		}

		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build lead insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert leads for run %s: %w", run.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// RecentLeads returns up to limit leads, newest runs first and best scores first within a run.
func (r *SQLiteRepository) RecentLeads(ctx context.Context, limit int) ([]domain.RankedCompany, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	query, args, err := sq.Select(
		"company_name", "source_link", "core_intent", "stage", "timeline",
		"project_type", "sector", "confidence", "private_sector", "relevance_score",
		"article_title", "source", "published",
	).
		From("leads").
		OrderBy("created_at DESC", "run_id", "position").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lead query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.RankedCompany
	for rows.Next() {
		var (
			c           domain.RankedCompany
			projectType string
			confidence  string
		)
		if err := rows.Scan(
			&c.CompanyName, &c.SourceLink, &c.CoreIntent, &c.Stage, &c.Timeline,
			&projectType, &c.Sector, &confidence, &c.IsPrivateSector, &c.RelevanceScore,
			&c.ArticleTitle, &c.Source, &c.Date,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		c.ProjectType = domain.ProjectType(projectType)
		c.Confidence = domain.Confidence(confidence)
		leads = append(leads, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return leads, nil
}
