package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAMLConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadYAMLConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadYAMLConfigFrom() error = %v", err)
	}
	if cfg.Lists.ModerationPageSize != 10 {
		t.Errorf("ModerationPageSize = %d, want 10", cfg.Lists.ModerationPageSize)
	}
	if cfg.Notifications.Upload != 10*time.Second {
		t.Errorf("Notifications.Upload = %v, want 10s", cfg.Notifications.Upload)
	}
	if cfg.Roles.Default != "USER" {
		t.Errorf("Roles.Default = %q, want USER", cfg.Roles.Default)
	}
}

func TestLoadYAMLConfigFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
roles:
  mappings:
    portal-admins: ADMIN
    portal-mods: MODERATOR
notifications:
  comment: 8s
lists:
  moderation_page_size: 25
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadYAMLConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadYAMLConfigFrom() error = %v", err)
	}
	if cfg.Lists.ModerationPageSize != 25 {
		t.Errorf("ModerationPageSize = %d, want 25", cfg.Lists.ModerationPageSize)
	}
	if cfg.Notifications.Comment != 8*time.Second {
		t.Errorf("Notifications.Comment = %v, want 8s", cfg.Notifications.Comment)
	}
	if cfg.Notifications.Favorite != 3*time.Second {
		t.Errorf("Notifications.Favorite = %v, want default 3s", cfg.Notifications.Favorite)
	}
}

func TestRoleForClaimValues(t *testing.T) {
	cfg := DefaultYAMLConfig()
	cfg.Roles.Mappings = map[string]string{
		"portal-admins": "ADMIN",
		"portal-mods":   "MODERATOR",
	}

	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"no values", nil, "USER"},
		{"unmapped value", []string{"staff"}, "USER"},
		{"moderator", []string{"portal-mods"}, "MODERATOR"},
		{"highest wins", []string{"portal-mods", "portal-admins"}, "ADMIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.RoleForClaimValues(tt.values); got != tt.want {
				t.Errorf("RoleForClaimValues(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}
