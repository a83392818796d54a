package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfgJSON := `{
		"dataset": {
			"url": "https://example.com/titanic.csv",
			"timeout": "10s",
			"sheet_name": "passengers"
		},
		"data_dir": "./data",
		"export_dir": "./export",
		"log_name": "app.log",
		"log_max_size": 1048576,
		"server_addr": ":8080",
		"refresh_interval": "1h"
	}`
	dcfgJSON := `{
		"age_bins": [0, 12, 19, 59, 200],
		"age_labels": ["Child", "Teen", "Adult", "Senior"],
		"sex_colors": {"male": "#2E86AB", "female": "#A23B72"},
		"class_colors": {"1": "#2C3E50", "2": "#E74C3C", "3": "#BDC3C7"},
		"division_colors": {"Above Median Age": "#34495E", "Below/At Median Age": "#95A5A6"},
		"top_names": 15
	}`

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfgJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte(dcfgJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, dcfg, err := LoadConfig(dir, "config.json", "dataconfig.json")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Dataset.URL != "https://example.com/titanic.csv" {
		t.Errorf("unexpected dataset url: %s", cfg.Dataset.URL)
	}
	if time.Duration(cfg.Dataset.Timeout) != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", time.Duration(cfg.Dataset.Timeout))
	}
	if time.Duration(cfg.RefreshInterval) != time.Hour {
		t.Errorf("refresh_interval = %v, want 1h", time.Duration(cfg.RefreshInterval))
	}
	if len(dcfg.AgeLabels) != 4 || dcfg.AgeLabels[0] != "Child" {
		t.Errorf("unexpected age labels: %v", dcfg.AgeLabels)
	}
	if got := dcfg.GetSexColor("female"); got != "#A23B72" {
		t.Errorf("GetSexColor(female) = %s", got)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1m30s"` {
		t.Errorf("marshal = %s, want \"1m30s\"", data)
	}

	var back Duration
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip: got %v, want %v", time.Duration(back), time.Duration(d))
	}
}

func TestDataConfigValidate(t *testing.T) {
	dc := &DataConfig{
		AgeBins:   []float64{0, 12, 19},
		AgeLabels: []string{"Child", "Teen", "Adult"},
	}
	if err := dc.validate(); err == nil {
		t.Error("expected validation error for mismatched bins/labels")
	}
}
