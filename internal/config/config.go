package config

import "github.com/spf13/viper"

// Config is the tool configuration read from anklume.yml. It points at
// the model source and the output root; it is not the model itself.
type Config struct {
	Model        string `mapstructure:"model"`
	Output       string `mapstructure:"output"`
	DryRun       bool   `mapstructure:"dry_run"`
	CleanOrphans bool   `mapstructure:"clean_orphans"`
}

// Load builds the config from viper with defaults applied.
func Load() (*Config, error) {
	cfg := &Config{
		Model:  "anklume.model.yml",
		Output: ".",
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
