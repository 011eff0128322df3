package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Hierarchical settings that are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Roles         RolesConfig         `yaml:"roles"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Lists         ListsConfig         `yaml:"lists"`
}

// RolesConfig maps OIDC claim values to portal roles.
type RolesConfig struct {
	Mappings map[string]string `yaml:"mappings"` // Claim value -> USER, MODERATOR, ADMIN
	Default  string            `yaml:"default"`
}

// NotificationsConfig holds auto-dismiss timeouts per call site.
type NotificationsConfig struct {
	Favorite   time.Duration `yaml:"favorite"`
	Follow     time.Duration `yaml:"follow"`
	Comment    time.Duration `yaml:"comment"`
	Moderation time.Duration `yaml:"moderation"`
	Upload     time.Duration `yaml:"upload"`
}

// ListsConfig holds page sizes for client-side pagination.
type ListsConfig struct {
	ModerationPageSize int `yaml:"moderation_page_size"`
	FilesPageSize      int `yaml:"files_page_size"`
}

// DefaultYAMLConfig returns the settings used when config.yaml is absent.
func DefaultYAMLConfig() *YAMLConfig {
	cfg := &YAMLConfig{}
	cfg.applyDefaults()
	return cfg
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// A missing file yields the defaults.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFrom(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFrom loads the YAML configuration from path.
func LoadYAMLConfigFrom(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return DefaultYAMLConfig(), nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *YAMLConfig) applyDefaults() {
	if c.Roles.Default == "" {
		c.Roles.Default = "USER"
	}
	n := &c.Notifications
	if n.Favorite == 0 {
		n.Favorite = 3 * time.Second
	}
	if n.Follow == 0 {
		n.Follow = 3 * time.Second
	}
	if n.Comment == 0 {
		n.Comment = 5 * time.Second
	}
	if n.Moderation == 0 {
		n.Moderation = 5 * time.Second
	}
	if n.Upload == 0 {
		n.Upload = 10 * time.Second
	}
	if c.Lists.ModerationPageSize <= 0 {
		c.Lists.ModerationPageSize = 10
	}
	if c.Lists.FilesPageSize <= 0 {
		c.Lists.FilesPageSize = 20
	}
}

// RoleForClaimValues returns the highest role granted by any of the claim
// values, or the default role when none is mapped.
func (c *YAMLConfig) RoleForClaimValues(values []string) string {
	if c == nil {
		return "USER"
	}
	best := c.Roles.Default
	for _, v := range values {
		role, ok := c.Roles.Mappings[v]
		if !ok {
			continue
		}
		if rank(role) > rank(best) {
			best = role
		}
	}
	return best
}

func rank(role string) int {
	switch role {
	case "ADMIN":
		return 2
	case "MODERATOR":
		return 1
	}
	return 0
}
