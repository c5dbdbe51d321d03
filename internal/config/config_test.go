package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// point at an empty config file so the suite ignores any real
	// ~/.watertrend/config.yaml
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q", c.ListenAddr)
	}
	if c.HTTPTimeoutSec != 30 {
		t.Fatalf("HTTPTimeoutSec = %d", c.HTTPTimeoutSec)
	}
	if c.LogFormat != "text" {
		t.Fatalf("LogFormat = %q", c.LogFormat)
	}
	if c.ExcelURL != "" || c.TargetsURL != "" {
		t.Fatalf("URLs defaulted non-empty: %q %q", c.ExcelURL, c.TargetsURL)
	}
	if c.LocalWorkbook == "" || c.LocalTargets == "" {
		t.Fatal("local fallback paths missing")
	}
}

func TestLoadFromFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	body := `excel_url: https://example.com/results.xlsx
listen_addr: ":9090"
http_timeout_sec: 10
log_format: json
`
	if err := os.WriteFile(cfgFile, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ExcelURL != "https://example.com/results.xlsx" {
		t.Fatalf("ExcelURL = %q", c.ExcelURL)
	}
	if c.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q", c.ListenAddr)
	}
	if c.HTTPTimeout() != 10*time.Second {
		t.Fatalf("HTTPTimeout = %v", c.HTTPTimeout())
	}
	if c.LogFormat != "json" {
		t.Fatalf("LogFormat = %q", c.LogFormat)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("http_timeout_sec: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgFile); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		ExcelURL:       "https://example.com/wb.xlsx",
		LocalWorkbook:  "data/wb.xlsx",
		LocalTargets:   "data/targets.csv",
		ListenAddr:     ":7070",
		HTTPTimeoutSec: 15,
		LogFormat:      "text",
	}
	if err := Save(in, cfgFile); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.ExcelURL != in.ExcelURL || out.ListenAddr != in.ListenAddr || out.HTTPTimeoutSec != in.HTTPTimeoutSec {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
