package report

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds SMTP delivery settings. It is always loaded explicitly at
// the call site; nothing in this package reads credentials implicitly.
type Config struct {
	Server   string
	Port     int
	Address  string
	Password string
}

// LoadConfig reads delivery settings from a config file with an "email"
// section. Environment variables override file values: for each key,
// AUTOMATA_ plus the dotted key with dots replaced by underscores, e.g.
// AUTOMATA_EMAIL_EMAIL_PASSWORD overrides email.email_password.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("automata")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read email config: %w", err)
	}
	if v.Sub("email") == nil {
		return Config{}, fmt.Errorf("config %s has no email section", path)
	}
	v.SetDefault("email.email_port", 587)

	cfg := Config{
		Server:   v.GetString("email.email_server"),
		Port:     v.GetInt("email.email_port"),
		Address:  v.GetString("email.email_address"),
		Password: v.GetString("email.email_password"),
	}

	if cfg.Server == "" {
		return Config{}, fmt.Errorf("email_server is required")
	}
	if cfg.Address == "" {
		return Config{}, fmt.Errorf("email_address is required")
	}
	return cfg, nil
}
