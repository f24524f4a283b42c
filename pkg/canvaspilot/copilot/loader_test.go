package copilot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	t.Run("empty yaml keeps defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(""))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Model != "gpt-4o-mini" || cfg.Gateway.Port != 8090 {
			t.Errorf("defaults not applied: %+v", cfg)
		}
	})

	t.Run("yaml overlays defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte("model: gpt-4o\ngateway:\n  port: 9000\n"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Model != "gpt-4o" {
			t.Errorf("model = %q", cfg.Model)
		}
		if cfg.Gateway.Port != 9000 {
			t.Errorf("port = %d", cfg.Gateway.Port)
		}
		// Untouched fields stay at defaults.
		if cfg.Gateway.Host != "127.0.0.1" {
			t.Errorf("host = %q", cfg.Gateway.Host)
		}
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		if _, err := ParseConfig([]byte("model: [unclosed")); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CP_TEST_KEY", "secret-value")

	if got := expandEnvVars("api_key: ${CP_TEST_KEY}"); got != "api_key: secret-value" {
		t.Errorf("braced expansion = %q", got)
	}
	if got := expandEnvVars("api_key: $CP_TEST_KEY"); got != "api_key: secret-value" {
		t.Errorf("bare expansion = %q", got)
	}
	// Unset variables keep the placeholder.
	if got := expandEnvVars("key: ${CP_TEST_UNSET_XYZ}"); got != "key: ${CP_TEST_UNSET_XYZ}" {
		t.Errorf("unset var = %q", got)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("CP_TEST_LLM_KEY", "sk-from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "name: Pilot\napi:\n  api_key: ${CP_TEST_LLM_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "Pilot" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.API.APIKey != "sk-from-env" {
		t.Errorf("api key = %q, want value from env", cfg.API.APIKey)
	}
}

func TestSanitizeSecret(t *testing.T) {
	t.Setenv("CP_SANITIZE_KEY", "real-secret")

	if got := sanitizeSecret("real-secret", "CP_SANITIZE_KEY"); got != "${CP_SANITIZE_KEY}" {
		t.Errorf("matching env value should become a reference, got %q", got)
	}
	if got := sanitizeSecret("${ALREADY_REF}", "CP_SANITIZE_KEY"); got != "${ALREADY_REF}" {
		t.Errorf("references pass through, got %q", got)
	}
	if got := sanitizeSecret("other-value", "CP_SANITIZE_KEY"); got != "other-value" {
		t.Errorf("non-matching values pass through, got %q", got)
	}
}

func TestIsEnvReference(t *testing.T) {
	if !IsEnvReference("${X}") || !IsEnvReference("$X") {
		t.Error("references not detected")
	}
	if IsEnvReference("sk-plainkey") {
		t.Error("plain value misdetected as reference")
	}
}
