package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig represents the optional application configuration file
type AppConfig struct {
	Masters []MasterSeed `toml:"master"`
}

// MasterSeed declares extra controlled-vocabulary values seeded at startup
type MasterSeed struct {
	Category string   `toml:"category"`
	Values   []string `toml:"values"`
}

// Validate checks if the MasterSeed is valid
func (m *MasterSeed) Validate() error {
	if _, err := types.ParseCategory(m.Category); err != nil {
		return goerr.Wrap(ErrInvalidConfig, "unknown master category",
			goerr.V(CategoryKey, m.Category))
	}
	for _, value := range m.Values {
		if value == "" {
			return goerr.Wrap(ErrInvalidConfig, "master value must not be empty",
				goerr.V(CategoryKey, m.Category))
		}
	}
	return nil
}

// Validate checks the whole configuration
func (c *AppConfig) Validate() error {
	for i := range c.Masters {
		if err := c.Masters[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Seeds converts the configured master entries into the seed map consumed
// by the use case layer.
func (c *AppConfig) Seeds() map[types.Category][]string {
	if len(c.Masters) == 0 {
		return nil
	}
	seeds := make(map[types.Category][]string, len(c.Masters))
	for _, m := range c.Masters {
		category, err := types.ParseCategory(m.Category)
		if err != nil {
			continue
		}
		seeds[category] = append(seeds[category], m.Values...)
	}
	return seeds
}

// LoadAppConfig reads and validates a TOML configuration file. An empty
// path yields an empty configuration.
func LoadAppConfig(path string) (*AppConfig, error) {
	if path == "" {
		return &AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "cannot read configuration",
				goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read configuration file",
			goerr.V(ConfigPathKey, path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse configuration file",
			goerr.V(ConfigPathKey, path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
