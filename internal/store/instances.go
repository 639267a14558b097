package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
)

// SaveInstance inserts or replaces an automation instance.
func (s *Store) SaveInstance(inst *automation.AutomationInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	if inst.IsActive {
		active = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO automation_instances
			(id, template_id, provider_configuration, automation_configuration,
			 is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider_configuration=excluded.provider_configuration,
			automation_configuration=excluded.automation_configuration,
			is_active=excluded.is_active, updated_at=excluded.updated_at
	`, inst.ID, inst.TemplateID, toJSON(inst.ProviderConfiguration),
		toJSON(inst.AutomationConfiguration), active,
		inst.CreatedAt.Format(time.RFC3339), inst.UpdatedAt.Format(time.RFC3339))
	return err
}

// GetInstance loads one automation instance by id.
func (s *Store) GetInstance(id string) (*automation.AutomationInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, template_id, provider_configuration, automation_configuration,
		       is_active, created_at, updated_at
		FROM automation_instances WHERE id = ?
	`, id)
	return scanInstance(row)
}

// ListInstances returns automation instances, most recent first.
func (s *Store) ListInstances(limit int) ([]*automation.AutomationInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, template_id, provider_configuration, automation_configuration,
		       is_active, created_at, updated_at
		FROM automation_instances ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instances []*automation.AutomationInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

func scanInstance(row scanner) (*automation.AutomationInstance, error) {
	var inst automation.AutomationInstance
	var providers, cfg string
	var active int
	var createdAt, updatedAt string

	err := row.Scan(&inst.ID, &inst.TemplateID, &providers, &cfg, &active,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	_ = fromJSON(providers, &inst.ProviderConfiguration)
	_ = fromJSON(cfg, &inst.AutomationConfiguration)
	inst.IsActive = active != 0
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		inst.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		inst.UpdatedAt = t
	}
	return &inst, nil
}
