package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store handles persistence of content plans, generated items, validation
// results and automation instances using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a SQLite-backed store at the given path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS content_plans (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description      TEXT,
			target_channels  TEXT,
			target_audience  TEXT,
			tone             TEXT,
			seo_keywords     TEXT,
			competitor_urls  TEXT,
			min_seo_score    INTEGER NOT NULL,
			max_iterations   INTEGER NOT NULL,
			status           TEXT NOT NULL,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS content_items (
			id          TEXT PRIMARY KEY,
			plan_id     TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			body        TEXT,
			state       TEXT NOT NULL,
			tags        TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL,
			FOREIGN KEY (plan_id) REFERENCES content_plans(id)
		);

		CREATE TABLE IF NOT EXISTS validation_results (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id     TEXT NOT NULL,
			iteration   INTEGER NOT NULL,
			score       INTEGER NOT NULL,
			result      TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			UNIQUE(plan_id, iteration),
			FOREIGN KEY (plan_id) REFERENCES content_plans(id)
		);

		CREATE TABLE IF NOT EXISTS automation_instances (
			id                       TEXT PRIMARY KEY,
			template_id              TEXT NOT NULL,
			provider_configuration   TEXT NOT NULL,
			automation_configuration TEXT,
			is_active                INTEGER NOT NULL DEFAULT 1,
			created_at               TEXT NOT NULL,
			updated_at               TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_plans_status ON content_plans(status);
		CREATE INDEX IF NOT EXISTS idx_items_plan ON content_items(plan_id);
		CREATE INDEX IF NOT EXISTS idx_validations_plan ON validation_results(plan_id);
		CREATE INDEX IF NOT EXISTS idx_instances_template ON automation_instances(template_id);
	`)
	return err
}

// SavePlan inserts or replaces a plan.
func (s *Store) SavePlan(p *content.ContentPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO content_plans
			(id, title, description, target_channels, target_audience, tone,
			 seo_keywords, competitor_urls, min_seo_score, max_iterations,
			 status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, description=excluded.description,
			target_channels=excluded.target_channels,
			target_audience=excluded.target_audience, tone=excluded.tone,
			seo_keywords=excluded.seo_keywords,
			competitor_urls=excluded.competitor_urls,
			min_seo_score=excluded.min_seo_score,
			max_iterations=excluded.max_iterations,
			status=excluded.status, updated_at=excluded.updated_at
	`, p.ID, p.Title, p.Description, toJSON(p.TargetChannels), p.TargetAudience,
		p.Tone, toJSON(p.SEOKeywords), toJSON(p.CompetitorURLs), p.MinSEOScore,
		p.MaxIterations, string(p.Status), p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339))
	return err
}

// UpdatePlanStatus persists a status transition without touching the rest
// of the plan.
func (s *Store) UpdatePlanStatus(planID string, status content.PlanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE content_plans SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC().Format(time.RFC3339), planID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("%w: plan %s", ErrNotFound, planID)
	}
	return err
}

// GetPlan loads one plan by id.
func (s *Store) GetPlan(id string) (*content.ContentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, title, description, target_channels, target_audience, tone,
		       seo_keywords, competitor_urls, min_seo_score, max_iterations,
		       status, created_at, updated_at
		FROM content_plans WHERE id = ?
	`, id)
	return scanPlan(row)
}

// ListPlans returns the most recently created plans.
func (s *Store) ListPlans(limit int) ([]*content.ContentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, title, description, target_channels, target_audience, tone,
		       seo_keywords, competitor_urls, min_seo_score, max_iterations,
		       status, created_at, updated_at
		FROM content_plans ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*content.ContentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ListStalePlans returns plans stuck in a non-terminal status whose last
// update is older than the cutoff. Used by the scheduler sweep to resume
// interrupted processing.
func (s *Store) ListStalePlans(olderThan time.Duration, limit int) ([]*content.ContentPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)

	rows, err := s.db.Query(`
		SELECT id, title, description, target_channels, target_audience, tone,
		       seo_keywords, competitor_urls, min_seo_score, max_iterations,
		       status, created_at, updated_at
		FROM content_plans
		WHERE status NOT IN (?, ?) AND updated_at < ?
		ORDER BY updated_at ASC LIMIT ?
	`, string(content.PlanStatusReady), string(content.PlanStatusFailed), cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*content.ContentPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*content.ContentPlan, error) {
	var p content.ContentPlan
	var channels, keywords, urls, status, createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Title, &p.Description, &channels, &p.TargetAudience,
		&p.Tone, &keywords, &urls, &p.MinSEOScore, &p.MaxIterations,
		&status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	_ = fromJSON(channels, &p.TargetChannels)
	_ = fromJSON(keywords, &p.SEOKeywords)
	_ = fromJSON(urls, &p.CompetitorURLs)
	p.Status = content.PlanStatus(status)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = t
	}
	return &p, nil
}

// SaveItem inserts or replaces the content item for a plan. One item per
// plan: refined drafts overwrite the previous one in place.
func (s *Store) SaveItem(item *content.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO content_items (id, plan_id, title, body, state, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			title=excluded.title, body=excluded.body, state=excluded.state,
			tags=excluded.tags, updated_at=excluded.updated_at
	`, item.ID, item.PlanID, item.Title, item.Body, string(item.State),
		toJSON(item.Tags), item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339))
	return err
}

// GetItem loads one content item by its id.
func (s *Store) GetItem(id string) (*content.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, plan_id, title, body, state, tags, created_at, updated_at
		FROM content_items WHERE id = ?
	`, id)
	return scanItem(row)
}

// GetItemByPlan loads the content item belonging to a plan.
func (s *Store) GetItemByPlan(planID string) (*content.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, plan_id, title, body, state, tags, created_at, updated_at
		FROM content_items WHERE plan_id = ?
	`, planID)
	return scanItem(row)
}

// UpdateItemState moves a content item through its review workflow.
func (s *Store) UpdateItemState(id string, state content.ItemState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE content_items SET state = ?, updated_at = ? WHERE id = ?
	`, string(state), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("%w: content item %s", ErrNotFound, id)
	}
	return err
}

func scanItem(row scanner) (*content.ContentItem, error) {
	var item content.ContentItem
	var state, tags, createdAt, updatedAt string

	err := row.Scan(&item.ID, &item.PlanID, &item.Title, &item.Body, &state,
		&tags, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	item.State = content.ItemState(state)
	_ = fromJSON(tags, &item.Tags)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		item.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		item.UpdatedAt = t
	}
	return &item, nil
}

// SaveValidation records the validation result of one loop iteration.
func (s *Store) SaveValidation(planID string, iteration int, result *content.ValidationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO validation_results (plan_id, iteration, score, result, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(plan_id, iteration) DO UPDATE SET
			score=excluded.score, result=excluded.result, created_at=excluded.created_at
	`, planID, iteration, result.Score, toJSON(result),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetLatestValidation returns the most recent validation result for a plan.
func (s *Store) GetLatestValidation(planID string) (*content.ValidationResult, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT iteration, result FROM validation_results
		WHERE plan_id = ? ORDER BY iteration DESC LIMIT 1
	`, planID)

	var iteration int
	var raw string
	if err := row.Scan(&iteration, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	var result content.ValidationResult
	if err := fromJSON(raw, &result); err != nil {
		return nil, 0, err
	}
	return &result, iteration, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func fromJSON(data string, v any) error {
	if data == "" || data == "[]" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
