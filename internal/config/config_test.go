package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		BaseURL:           "http://localhost:3000",
		APIBaseURL:        "https://community.example.com",
		GraphQLURL:        "https://community.example.com/graphql",
		UploadURL:         "https://community.example.com/api/upload",
		PublicFileBaseURL: "https://files.example.com",
	}
}

func TestValidateURLs(t *testing.T) {
	if err := validConfig().ValidateURLs(); err != nil {
		t.Fatalf("ValidateURLs() error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantEnv string
	}{
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }, "API_BASE_URL"},
		{"bad scheme", func(c *Config) { c.UploadURL = "ftp://files.example.com" }, "UPLOAD_URL"},
		{"no host", func(c *Config) { c.PublicFileBaseURL = "https://" }, "PUBLIC_FILE_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.ValidateURLs()
			if err == nil {
				t.Fatal("ValidateURLs() error = nil, want error")
			}
			if !strings.HasPrefix(err.Error(), tt.wantEnv+":") {
				t.Errorf("ValidateURLs() error = %q, want prefix %q", err, tt.wantEnv)
			}
		})
	}
}

func TestFeatureToggles(t *testing.T) {
	cfg := &Config{}
	if cfg.IsS3Enabled() || cfg.IsOIDCEnabled() || cfg.IsEmailEnabled() {
		t.Fatal("empty config should disable optional integrations")
	}

	cfg.S3Endpoint = "localhost:9000"
	cfg.OIDCIssuer = "https://id.example.com"
	cfg.OIDCClientID = "portal"
	if !cfg.IsS3Enabled() || !cfg.IsOIDCEnabled() {
		t.Error("S3 and OIDC should be enabled once configured")
	}

	cfg.SMTPEnabled = true
	cfg.SMTPHost = "smtp.example.com"
	if cfg.IsEmailEnabled() {
		t.Error("email needs a sender address")
	}
	cfg.SMTPFrom = "portal@example.com"
	if !cfg.IsEmailEnabled() {
		t.Error("email should be enabled once fully configured")
	}
}
