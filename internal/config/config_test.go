package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("PINMSGPACK_TEST_VAR", "hello")

	cases := map[string]string{
		"${PINMSGPACK_TEST_VAR}":            "hello",
		"${PINMSGPACK_UNSET_VAR:-fallback}": "fallback",
		"${PINMSGPACK_UNSET_VAR}":           "${PINMSGPACK_UNSET_VAR}",
		"plain text":                        "plain text",
	}
	for input, want := range cases {
		if got := SubstituteEnvVars(input); got != want {
			t.Errorf("SubstituteEnvVars(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msgpackcat.yaml")

	cfg := Default()
	cfg.Buffer.PreserveData = true
	cfg.Decoder.SkipDepthLimit = 128
	cfg.Decoder.ForceMapKeysToString = true

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Buffer.PreserveData != true {
		t.Errorf("PreserveData = %v, want true", loaded.Buffer.PreserveData)
	}
	if loaded.Decoder.SkipDepthLimit != 128 {
		t.Errorf("SkipDepthLimit = %d, want 128", loaded.Decoder.SkipDepthLimit)
	}
	if !loaded.Decoder.ForceMapKeysToString {
		t.Errorf("ForceMapKeysToString = false, want true")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected LoadConfig to fail on a missing file")
	}
}

func TestLoadConfigReadsJSONContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msgpackcat.json")
	// JSON is a YAML subset, so the YAML decoder accepts this content
	// and LoadConfig's JSON fallback is not reached; the test checks
	// that a JSON-formatted config file loads.
	if err := os.WriteFile(path, []byte(`{"decoder":{"skip_depth_limit":7}}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Decoder.SkipDepthLimit != 7 {
		t.Errorf("SkipDepthLimit = %d, want 7", cfg.Decoder.SkipDepthLimit)
	}
}
