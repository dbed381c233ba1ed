package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Report.Format != "table" || !cfg.Report.Color || !cfg.Report.Progress {
		t.Errorf("Report defaults mismatch: %+v", cfg.Report)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.JSON {
		t.Errorf("Logging defaults mismatch: %+v", cfg.Logging)
	}
	if cfg.Process.Workers != 0 {
		t.Errorf("Expected auto workers, got %d", cfg.Process.Workers)
	}
}

func TestMerge(t *testing.T) {
	m := NewManager()
	m.merge(&Config{
		Process: ProcessConfig{Workers: 8},
		Report:  ReportConfig{Format: "json"},
		Logging: LoggingConfig{Level: "debug", JSON: true},
	})

	cfg := m.Get()
	if cfg.Process.Workers != 8 {
		t.Errorf("Expected workers 8, got %d", cfg.Process.Workers)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("Expected format json, got %q", cfg.Report.Format)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("Logging not merged: %+v", cfg.Logging)
	}
	// Zero values in the source never clobber existing settings.
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce clobbered: %v", cfg.Watch.Debounce)
	}
}

func TestMerge_PartialOverride(t *testing.T) {
	m := NewManager()
	m.merge(&Config{Process: ProcessConfig{Catalog: "/tmp/catalog.yaml"}})

	cfg := m.Get()
	if cfg.Process.Catalog != "/tmp/catalog.yaml" {
		t.Errorf("Catalog not merged: %q", cfg.Process.Catalog)
	}
	if cfg.Report.Format != "table" {
		t.Errorf("Unrelated setting changed: %q", cfg.Report.Format)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("EVTCFLOW_WORKERS", "4")
	t.Setenv("EVTCFLOW_CATALOG", "/etc/catalog.yaml")
	t.Setenv("EVTCFLOW_LOG_LEVEL", "warn")
	t.Setenv("EVTCFLOW_FORMAT", "json")

	m := NewManager()
	m.loadEnv()

	cfg := m.Get()
	if cfg.Process.Workers != 4 {
		t.Errorf("Expected workers 4, got %d", cfg.Process.Workers)
	}
	if cfg.Process.Catalog != "/etc/catalog.yaml" {
		t.Errorf("Catalog env override lost: %q", cfg.Process.Catalog)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level env override lost: %q", cfg.Logging.Level)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("Format env override lost: %q", cfg.Report.Format)
	}
}

func TestLoadEnv_InvalidWorkers(t *testing.T) {
	t.Setenv("EVTCFLOW_WORKERS", "lots")

	m := NewManager()
	m.loadEnv()
	if got := m.Get().Process.Workers; got != 0 {
		t.Errorf("Expected invalid value ignored, got %d", got)
	}
}
