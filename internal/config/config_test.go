package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
core:
  trash:
    home_only: true
  restore:
    verbose: true
    confirm: false
ui:
  density: compact
  paginator_type: arabic
listing:
  sort: size
  include:
    within_days: 30
  exclude:
    files:
      - .DS_Store
    size:
      min: 1KB
      max: 1GB
`)

	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Core.Trash.HomeOnly {
		t.Error("home_only should be true")
	}
	if cfg.Core.Restore.Confirm {
		t.Error("restore confirm should be false")
	}
	if cfg.UI.Density != "compact" {
		t.Errorf("density = %q, want compact", cfg.UI.Density)
	}
	if cfg.Listing.Sort != "size" {
		t.Errorf("sort = %q, want size", cfg.Listing.Sort)
	}
	if cfg.Listing.Include.Period != 30 {
		t.Errorf("within_days = %d, want 30", cfg.Listing.Include.Period)
	}
	if cfg.Listing.Exclude.Size.Max != "1GB" {
		t.Errorf("size max = %q, want 1GB", cfg.Listing.Exclude.Size.Max)
	}
}

func TestParseRejectsInvalidDensity(t *testing.T) {
	path := writeConfig(t, `
ui:
  density: cozy
  paginator_type: dots
`)
	if _, err := Parse(path); err == nil {
		t.Error("Parse should reject an unknown density")
	}
}

func TestParseRejectsInvalidSort(t *testing.T) {
	path := writeConfig(t, `
ui:
  density: compact
  paginator_type: dots
listing:
  sort: mtime
`)
	if _, err := Parse(path); err == nil {
		t.Error("Parse should reject an unknown sort order")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	p := initParser()
	path := writeConfig(t, p.getDefaultConfigContents())

	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("default config should parse cleanly: %v", err)
	}
	if cfg.UI.Density != "spacious" {
		t.Errorf("default density = %q, want spacious", cfg.UI.Density)
	}
	if cfg.Listing.Include.Period != 365 {
		t.Errorf("default within_days = %d, want 365", cfg.Listing.Include.Period)
	}
}

func TestValidSize(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"", true},
		{"10KB", true},
		{"1gb", true},
		{"5TB", true},
	}
	for _, tt := range tests {
		path := writeConfig(t, `
ui:
  density: compact
  paginator_type: dots
listing:
  exclude:
    size:
      min: "`+tt.input+`"
`)
		_, err := Parse(path)
		if tt.valid && err != nil {
			t.Errorf("size %q should be accepted: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("size %q should be rejected", tt.input)
		}
	}
}

func TestMissingConfigErrorMentionsDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Parse(missing)
	if err == nil {
		t.Fatal("Parse should fail for a missing explicit path")
	}
	if !strings.Contains(err.Error(), "config") {
		t.Errorf("error should mention the config file: %v", err)
	}
}
