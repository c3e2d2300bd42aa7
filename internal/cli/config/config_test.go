package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := &Config{
		Servers: []Server{
			{URL: "https://api.mephub.lk", Alias: "production"},
			{URL: "http://localhost:8080", Alias: "local"},
		},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(loaded.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(loaded.Servers))
	}
	if loaded.Servers[0].Alias != "production" || loaded.Servers[0].URL != "https://api.mephub.lk" {
		t.Errorf("first server = %+v", loaded.Servers[0])
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("servers: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetServerByAlias(t *testing.T) {
	cfg := &Config{Servers: []Server{{URL: "http://localhost:8080", Alias: "local"}}}

	server, err := cfg.GetServerByAlias("local")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if server.URL != "http://localhost:8080" {
		t.Errorf("url = %q", server.URL)
	}

	if _, err := cfg.GetServerByAlias("missing"); err == nil {
		t.Error("expected error for unknown alias")
	}
}

func TestGetDefaultServer(t *testing.T) {
	empty := &Config{}
	if _, err := empty.GetDefaultServer(); err == nil {
		t.Error("expected error for empty server list")
	}

	cfg := &Config{Servers: []Server{{URL: "a", Alias: "first"}, {URL: "b", Alias: "second"}}}
	server, err := cfg.GetDefaultServer()
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if server.Alias != "first" {
		t.Errorf("default server = %+v", server)
	}
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := Save(filepath.Join(root, ConfigFileName), DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfigFile()
	if err != nil {
		t.Fatalf("expected to find config in ancestor: %v", err)
	}
	if filepath.Base(found) != ConfigFileName {
		t.Errorf("found = %q", found)
	}
}
