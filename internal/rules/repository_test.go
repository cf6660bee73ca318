package rules

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/sundiald/sundial/migrations"

	"github.com/sundiald/sundial/internal/capability"
	"github.com/sundiald/sundial/internal/infrastructure/database"
	"github.com/sundiald/sundial/internal/trigger"
)

// newTestRepository opens a migrated SQLite database in a temp directory.
func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     false,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	return NewSQLiteRepository(db.DB)
}

func newStoredRule() *AutomationRule {
	return &AutomationRule{
		ID:           GenerateID(),
		Name:         "Morning backlight",
		Enabled:      true,
		Trigger:      trigger.NewTimeOfDay(7, 30, []time.Weekday{time.Monday, time.Friday}),
		CapabilityID: "keyboard-backlight",
		ActionID:     "fade",
		Parameters: capability.Params{
			"level":       capability.Int(80),
			"duration_ms": capability.Int(2000),
		},
	}
}

func TestRuleRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if got.Name != rule.Name || !got.Enabled {
		t.Errorf("rule = %+v", got)
	}
	if got.Trigger.Kind != trigger.KindTimeOfDay || got.Trigger.Hour != 7 || got.Trigger.Minute != 30 {
		t.Errorf("trigger = %+v", got.Trigger)
	}
	if len(got.Trigger.DaysOfWeek) != 2 {
		t.Errorf("days = %v, want 2 entries", got.Trigger.DaysOfWeek)
	}
	if lvl, ok := got.Parameters["level"].AsInt(); !ok || lvl != 80 {
		t.Errorf("level parameter = %v", got.Parameters["level"])
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not populated")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, rule); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate insert error = %v, want ErrExists", err)
	}
}

func TestListEnabledFiltersDisabled(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	enabled := newStoredRule()
	enabled.Name = "alpha"
	disabled := newStoredRule()
	disabled.ID = GenerateID()
	disabled.Name = "bravo"
	disabled.Enabled = false

	for _, r := range []*AutomationRule{enabled, disabled} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].Name != "alpha" || all[1].Name != "bravo" {
		t.Errorf("List = %+v, want 2 rules ordered by name", all)
	}

	active, err := repo.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("ListEnabled: %v", err)
	}
	if len(active) != 1 || active[0].ID != enabled.ID {
		t.Errorf("ListEnabled = %+v, want only the enabled rule", active)
	}
}

func TestUpdateRule(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rule.Name = "Renamed"
	rule.Enabled = false
	rule.Trigger = trigger.NewInterval(30 * time.Second)
	rule.Parameters = nil
	if err := repo.Update(ctx, rule); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, rule.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Renamed" || got.Enabled {
		t.Errorf("rule = %+v", got)
	}
	if got.Trigger.Kind != trigger.KindInterval || got.Trigger.PeriodMS != 30000 {
		t.Errorf("trigger = %+v", got.Trigger)
	}
	if got.Parameters != nil {
		t.Errorf("parameters = %v, want nil after clearing", got.Parameters)
	}

	missing := newStoredRule()
	missing.ID = "missing"
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating unknown rule = %v, want ErrNotFound", err)
	}
}

func TestDeleteRule(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, rule.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, rule.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted rule still present: %v", err)
	}
	if err := repo.Delete(ctx, rule.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// Missing row yields zero-value settings, not an error.
	s, err := repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if s.HasLocation() {
		t.Errorf("fresh settings = %+v, want no location", s)
	}

	lat, lon := 51.5, -0.1
	if err := repo.SaveSettings(ctx, &GlobalSettings{Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	s, err = repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !s.HasLocation() || *s.Latitude != 51.5 || *s.Longitude != -0.1 {
		t.Errorf("settings = %+v", s)
	}

	// Second save updates the same row.
	lat2 := 48.2
	if err := repo.SaveSettings(ctx, &GlobalSettings{Latitude: &lat2, Longitude: &lon, AutoLocation: true}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	s, err = repo.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if *s.Latitude != 48.2 || !s.AutoLocation {
		t.Errorf("settings after upsert = %+v", s)
	}
}

func TestExecutionLog(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Second)
	failMsg := "bus unavailable"
	execs := []RuleExecution{
		{ID: GenerateID(), RuleID: rule.ID, FiredAt: base, Source: SourceScheduled, Status: StatusOK, DurationMS: 12},
		{ID: GenerateID(), RuleID: rule.ID, FiredAt: base.Add(time.Minute), Source: SourceManual, Status: StatusFailed, Error: &failMsg, DurationMS: 40},
	}
	for i := range execs {
		if err := repo.CreateExecution(ctx, &execs[i]); err != nil {
			t.Fatalf("CreateExecution: %v", err)
		}
	}

	got, err := repo.ListExecutions(ctx, rule.ID, 10)
	if err != nil {
		t.Fatalf("ListExecutions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("executions = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Status != StatusFailed || got[0].Error == nil || *got[0].Error != failMsg {
		t.Errorf("newest execution = %+v", got[0])
	}
	if got[1].Source != SourceScheduled || got[1].Error != nil {
		t.Errorf("oldest execution = %+v", got[1])
	}

	// Limit clamps.
	one, err := repo.ListExecutions(ctx, rule.ID, 1)
	if err != nil {
		t.Fatalf("ListExecutions: %v", err)
	}
	if len(one) != 1 {
		t.Errorf("limited executions = %d, want 1", len(one))
	}
}

func TestDeleteCascadesExecutions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rule := newStoredRule()
	if err := repo.Create(ctx, rule); err != nil {
		t.Fatalf("Create: %v", err)
	}
	exec := RuleExecution{
		ID: GenerateID(), RuleID: rule.ID, FiredAt: time.Now().UTC(),
		Source: SourceScheduled, Status: StatusOK,
	}
	if err := repo.CreateExecution(ctx, &exec); err != nil {
		t.Fatalf("CreateExecution: %v", err)
	}

	if err := repo.Delete(ctx, rule.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := repo.ListExecutions(ctx, rule.ID, 10)
	if err != nil {
		t.Fatalf("ListExecutions: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("executions after rule delete = %d, want 0", len(got))
	}
}
