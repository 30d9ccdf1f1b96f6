package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rasterizer.Binary != "wkhtmltoimage" {
		t.Errorf("default binary = %q", cfg.Rasterizer.Binary)
	}
	if cfg.Rasterizer.Format != "png" || cfg.Rasterizer.Quality != 100 || cfg.Rasterizer.Zoom != 4 {
		t.Errorf("unexpected rasterizer defaults: %+v", cfg.Rasterizer)
	}
	if !cfg.Output.Color {
		t.Error("color should default to on")
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".sheetshot")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	content := `rasterizer:
  binary: /opt/wkhtmltox/bin/wkhtmltoimage
  zoom: 2
temp_dir: /var/tmp/sheetshot
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rasterizer.Binary != "/opt/wkhtmltox/bin/wkhtmltoimage" {
		t.Errorf("binary = %q", cfg.Rasterizer.Binary)
	}
	if cfg.Rasterizer.Zoom != 2 {
		t.Errorf("zoom = %d", cfg.Rasterizer.Zoom)
	}
	// Unset keys keep their defaults
	if cfg.Rasterizer.Format != "png" {
		t.Errorf("format = %q, want default png", cfg.Rasterizer.Format)
	}
	if cfg.TempDir != "/var/tmp/sheetshot" {
		t.Errorf("temp_dir = %q", cfg.TempDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SHEETSHOT_TEMP_DIR", "/tmp/from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TempDir != "/tmp/from-env" {
		t.Errorf("temp_dir = %q, want env override", cfg.TempDir)
	}
}

func TestDefaultOptions(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.DefaultOptions()
	if opts["format"] != "png" || opts["quality"] != "100" || opts["zoom"] != "4" {
		t.Errorf("unexpected options: %v", opts)
	}
}
