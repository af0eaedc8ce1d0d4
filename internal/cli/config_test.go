package cli

import (
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.Authorizer != "bearer" {
		t.Fatalf("authorizer default = %q", c.Authorizer)
	}
	if c.BaseURL != "http://localhost:8094" {
		t.Fatalf("base_url default = %q", c.BaseURL)
	}
}

func TestConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	want := &Config{
		Authorizer:  "jwt",
		BaseURL:     "https://api.example.test",
		SessionFile: "/tmp/s.json",
	}
	if err := saveConfig(path, want); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}
}
