package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sundiald/sundial/internal/trigger"
)

// Repository defines the interface for rule persistence. The abstraction
// keeps the registry and orchestrator testable without a database.
type Repository interface {
	// Rule CRUD
	GetByID(ctx context.Context, id string) (*AutomationRule, error)
	List(ctx context.Context) ([]AutomationRule, error)
	ListEnabled(ctx context.Context) ([]AutomationRule, error)
	Create(ctx context.Context, rule *AutomationRule) error
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, id string) error

	// Site settings (single row)
	GetSettings(ctx context.Context) (*GlobalSettings, error)
	SaveSettings(ctx context.Context, settings *GlobalSettings) error

	// Execution logging
	CreateExecution(ctx context.Context, exec *RuleExecution) error
	ListExecutions(ctx context.Context, ruleID string, limit int) ([]RuleExecution, error)
}

// ruleColumns is the SELECT column list for rule queries.
const ruleColumns = `id, name, enabled, trigger_spec, capability_id, action_id, parameters,
			created_at, updated_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a rule by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id = ?`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying rule by id: %w", err)
	}
	return rule, nil
}

// List retrieves all rules ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY name`
	return r.queryRules(ctx, query)
}

// ListEnabled retrieves enabled rules only, the set the scheduler loads.
func (r *SQLiteRepository) ListEnabled(ctx context.Context) ([]AutomationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE enabled = 1 ORDER BY name`
	return r.queryRules(ctx, query)
}

// Create inserts a new rule.
func (r *SQLiteRepository) Create(ctx context.Context, rule *AutomationRule) error {
	triggerJSON, paramsJSON, err := marshalRuleBlobs(rule)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	query := `
		INSERT INTO rules (
			id, name, enabled, trigger_spec, capability_id, action_id,
			parameters, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID,
		rule.Name,
		boolToInt(rule.Enabled),
		triggerJSON,
		rule.CapabilityID,
		rule.ActionID,
		paramsJSON,
		rule.CreatedAt.Format(time.RFC3339),
		rule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrExists
		}
		return fmt.Errorf("inserting rule: %w", err)
	}
	return nil
}

// Update modifies an existing rule.
func (r *SQLiteRepository) Update(ctx context.Context, rule *AutomationRule) error {
	triggerJSON, paramsJSON, err := marshalRuleBlobs(rule)
	if err != nil {
		return err
	}

	rule.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE rules SET
			name = ?, enabled = ?, trigger_spec = ?, capability_id = ?,
			action_id = ?, parameters = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		rule.Name,
		boolToInt(rule.Enabled),
		triggerJSON,
		rule.CapabilityID,
		rule.ActionID,
		paramsJSON,
		rule.UpdatedAt.Format(time.RFC3339),
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a rule by ID. Execution rows cascade via the foreign key.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings retrieves the single site settings row. A missing row
// returns zero-value settings, never an error.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (*GlobalSettings, error) {
	query := `SELECT latitude, longitude, auto_location, updated_at FROM settings WHERE id = 1`

	var s GlobalSettings
	var lat, lon sql.NullFloat64
	var autoLocation int
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query).Scan(&lat, &lon, &autoLocation, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &GlobalSettings{}, nil
		}
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	if lat.Valid {
		s.Latitude = &lat.Float64
	}
	if lon.Valid {
		s.Longitude = &lon.Float64
	}
	s.AutoLocation = autoLocation != 0
	if t, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		s.UpdatedAt = t
	}

	return &s, nil
}

// SaveSettings upserts the single site settings row.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, settings *GlobalSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	query := `
		INSERT INTO settings (id, latitude, longitude, auto_location, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			auto_location = excluded.auto_location,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		nullableFloat(settings.Latitude),
		nullableFloat(settings.Longitude),
		boolToInt(settings.AutoLocation),
		settings.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// CreateExecution inserts a new execution record.
func (r *SQLiteRepository) CreateExecution(ctx context.Context, exec *RuleExecution) error {
	query := `
		INSERT INTO rule_executions (
			id, rule_id, fired_at, source, status, error, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		exec.ID,
		exec.RuleID,
		exec.FiredAt.Format(time.RFC3339),
		string(exec.Source),
		string(exec.Status),
		nullableString(exec.Error),
		exec.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("inserting execution: %w", err)
	}
	return nil
}

// ListExecutions retrieves recent executions for a rule, newest first.
func (r *SQLiteRepository) ListExecutions(ctx context.Context, ruleID string, limit int) ([]RuleExecution, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, rule_id, fired_at, source, status, error, duration_ms
		FROM rule_executions
		WHERE rule_id = ?
		ORDER BY fired_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	var executions []RuleExecution
	for rows.Next() {
		var e RuleExecution
		var firedAt, source, status string
		var execErr sql.NullString

		if scanErr := rows.Scan(&e.ID, &e.RuleID, &firedAt, &source, &status, &execErr, &e.DurationMS); scanErr != nil {
			return nil, fmt.Errorf("scanning execution: %w", scanErr)
		}

		if t, parseErr := time.Parse(time.RFC3339, firedAt); parseErr == nil {
			e.FiredAt = t
		}
		e.Source = ExecutionSource(source)
		e.Status = ExecutionStatus(status)
		if execErr.Valid {
			e.Error = &execErr.String
		}

		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating executions: %w", err)
	}
	return executions, nil
}

// queryRules executes a query and returns a slice of rules.
func (r *SQLiteRepository) queryRules(ctx context.Context, query string, args ...any) ([]AutomationRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var result []AutomationRule
	for rows.Next() {
		rule, scanErr := scanRule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning rule: %w", scanErr)
		}
		result = append(result, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}
	return result, nil
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(scanner rowScanner) (*AutomationRule, error) {
	var rule AutomationRule
	var enabled int
	var triggerJSON string
	var paramsJSON sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&rule.ID,
		&rule.Name,
		&enabled,
		&triggerJSON,
		&rule.CapabilityID,
		&rule.ActionID,
		&paramsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Enabled = enabled != 0

	var trig trigger.Trigger
	if jsonErr := json.Unmarshal([]byte(triggerJSON), &trig); jsonErr != nil {
		return nil, fmt.Errorf("unmarshalling trigger: %w", jsonErr)
	}
	rule.Trigger = trig

	if paramsJSON.Valid && paramsJSON.String != "" && paramsJSON.String != "null" {
		if jsonErr := json.Unmarshal([]byte(paramsJSON.String), &rule.Parameters); jsonErr != nil {
			return nil, fmt.Errorf("unmarshalling parameters: %w", jsonErr)
		}
	}

	if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		rule.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339, updatedAt); parseErr == nil {
		rule.UpdatedAt = t
	}

	return &rule, nil
}

// ─── SQL Helpers ────────────────────────────────────────────────────────────

// marshalRuleBlobs serialises the trigger and parameter columns.
func marshalRuleBlobs(rule *AutomationRule) (string, sql.NullString, error) {
	triggerJSON, err := json.Marshal(rule.Trigger)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("marshalling trigger: %w", err)
	}

	var paramsJSON sql.NullString
	if len(rule.Parameters) > 0 {
		data, marshalErr := json.Marshal(rule.Parameters)
		if marshalErr != nil {
			return "", sql.NullString{}, fmt.Errorf("marshalling parameters: %w", marshalErr)
		}
		paramsJSON = sql.NullString{String: string(data), Valid: true}
	}

	return string(triggerJSON), paramsJSON, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
