package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is msgpackcat's on-disk/CLI configuration, following the
// teacher's YAML-primary-with-JSON-fallback pattern.
type Config struct {
	Buffer  BufferConfig  `json:"buffer" yaml:"buffer"`
	Decoder DecoderConfig `json:"decoder" yaml:"decoder"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// BufferConfig controls pkg/buffer.Buffer construction.
type BufferConfig struct {
	PreserveData bool `json:"preserve_data" yaml:"preserve_data"`
}

// DecoderConfig controls pkg/msgpack.Decoder construction: the depth
// and size ceilings spec.md §7's taxonomy enforces.
type DecoderConfig struct {
	ForceMapKeysToString bool  `json:"force_map_keys_to_string" yaml:"force_map_keys_to_string"`
	SkipDepthLimit       int   `json:"skip_depth_limit" yaml:"skip_depth_limit"`
	MaxStringLen         int   `json:"max_string_len" yaml:"max_string_len"`
	MaxBinaryLen         int   `json:"max_binary_len" yaml:"max_binary_len"`
	MaxArrayLen          int   `json:"max_array_len" yaml:"max_array_len"`
	MaxMapLen            int   `json:"max_map_len" yaml:"max_map_len"`
	MaxInputLen          int64 `json:"max_input_len" yaml:"max_input_len"`
}

// LogConfig holds logging settings. NewDefaultLogger does not read it:
// its sample rate comes from the PINMSGPACK_LOG_SAMPLE_N env var.
type LogConfig struct {
	SampleN int `json:"sample_n" yaml:"sample_n"`
}

// Default returns the configuration msgpackcat falls back to when no
// config file is found.
func Default() *Config {
	return &Config{
		Decoder: DecoderConfig{
			SkipDepthLimit: 512,
			MaxStringLen:   64 << 20,
			MaxBinaryLen:   64 << 20,
			MaxArrayLen:    10_000_000,
			MaxMapLen:      10_000_000,
		},
	}
}

// LoadConfig reads path, substitutes ${VAR}/${VAR:-default} references,
// and unmarshals it as YAML, falling back to JSON -- the same
// try-both strategy the teacher's internal/config/config.go uses.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := SubstituteEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		if err := json.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file (tried YAML and JSON): %w", err)
		}
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var envRegex = regexp.MustCompile(`\${(\w+)(?::-([^}]*))?}`)

// SubstituteEnvVars expands ${VAR} and ${VAR:-default} references in
// input against the process environment.
func SubstituteEnvVars(input string) string {
	return envRegex.ReplaceAllStringFunc(input, func(m string) string {
		matches := envRegex.FindStringSubmatch(m)
		if len(matches) < 2 {
			return m
		}
		envVar := matches[1]
		if val, ok := os.LookupEnv(envVar); ok {
			return val
		}
		if len(matches) > 2 && strings.Contains(m, ":-") {
			return matches[2]
		}
		return m
	})
}
