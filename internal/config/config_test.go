package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return path
}

func TestLoadFromEnvUnset(t *testing.T) {
	const envVar = "FLOWKIT_TEST_CONFIG_UNSET"
	os.Unsetenv(envVar)

	_, err := LoadFromEnv(envVar)
	if err == nil {
		t.Fatal("LoadFromEnv() with unset variable should fail")
	}
}

func TestLoadFromEnvEmptyValue(t *testing.T) {
	const envVar = "FLOWKIT_TEST_CONFIG_EMPTY"
	t.Setenv(envVar, "   ")

	_, err := LoadFromEnv(envVar)
	if err == nil {
		t.Fatal("LoadFromEnv() with blank variable should fail")
	}
}

func TestLoadFromEnvWrongExtension(t *testing.T) {
	const envVar = "FLOWKIT_TEST_CONFIG_EXT"
	path := writeSettings(t, "settings.yaml", `{}`)
	t.Setenv(envVar, path)

	_, err := LoadFromEnv(envVar)
	if err == nil {
		t.Fatal("LoadFromEnv() with non-.json path should fail")
	}
}

func TestLoadFromEnvValid(t *testing.T) {
	const envVar = "FLOWKIT_TEST_CONFIG_OK"
	path := writeSettings(t, "settings.json", `{
		"TempMetadataFileLocation": "/var/flow/tmp",
		"ReportTitle": "Nightly import",
		"MaxSheets": 4,
		"Verbose": true
	}`)
	t.Setenv(envVar, path)

	cfg, err := LoadFromEnv(envVar)
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if got := cfg.TempMetadataFileLocation(); got != "/var/flow/tmp" {
		t.Errorf("TempMetadataFileLocation() = %q, want %q", got, "/var/flow/tmp")
	}
	if got, ok := cfg.Get("ReportTitle"); !ok || got != "Nightly import" {
		t.Errorf("Get(ReportTitle) = %q, %v", got, ok)
	}
	// Non-string values surface as their JSON text.
	if got, _ := cfg.Get("MaxSheets"); got != "4" {
		t.Errorf("Get(MaxSheets) = %q, want %q", got, "4")
	}
	if got, _ := cfg.Get("Verbose"); got != "true" {
		t.Errorf("Get(Verbose) = %q, want %q", got, "true")
	}
	if got := cfg.Source(); got != path {
		t.Errorf("Source() = %q, want %q", got, path)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := writeSettings(t, "broken.json", `{"key": `)

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile() with malformed JSON should fail")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("LoadFile() with missing file should fail")
	}
}

func TestGetDefault(t *testing.T) {
	path := writeSettings(t, "s.json", `{"A": "1"}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got := cfg.GetDefault("A", "x"); got != "1" {
		t.Errorf("GetDefault(A) = %q, want 1", got)
	}
	if got := cfg.GetDefault("B", "x"); got != "x" {
		t.Errorf("GetDefault(B) = %q, want fallback", got)
	}
}
