package database

import "testing"

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename string
		version  string
		name     string
		ok       bool
	}{
		{"001_initial_schema.sql", "001", "initial_schema", true},
		{"002_rule_executions.sql", "002", "rule_executions", true},
		{"010_add_index_on_fired_at.sql", "010", "add_index_on_fired_at", true},
		{"noversion.sql", "", "", false},
		{"_missing_version.sql", "", "", false},
		{"003_.sql", "", "", false},
	}

	for _, tt := range tests {
		version, name, ok := parseMigrationFilename(tt.filename)
		if version != tt.version || name != tt.name || ok != tt.ok {
			t.Errorf("parseMigrationFilename(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.filename, version, name, ok, tt.version, tt.name, tt.ok)
		}
	}
}
