// Package config handles plykit configuration loading and management.
package config

// Config holds all plytool settings.
type Config struct {
	Preview  PreviewConfig  `yaml:"preview"`
	Channels ChannelsConfig `yaml:"channels"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PreviewConfig holds preview rendering settings.
type PreviewConfig struct {
	Size        int    `yaml:"size"`        // output edge length in pixels
	Supersample int    `yaml:"supersample"` // anti-aliasing factor
	Background  string `yaml:"background"`  // hex color, e.g. "#1e1e22"
}

// ChannelsConfig extends the property names recognized during decoding.
// Entries are appended to the built-in channel map.
type ChannelsConfig struct {
	ExtraUVPairs      [][2]string `yaml:"extra_uv_pairs"`
	ExtraColorTriples [][3]string `yaml:"extra_color_triples"`
	ExtraIndexNames   []string    `yaml:"extra_index_names"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Preview: PreviewConfig{
			Size:        512,
			Supersample: 2,
			Background:  "#1e1e22",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
