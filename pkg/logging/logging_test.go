package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JaimeStill/finsight/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigFinalize_Defaults(t *testing.T) {
	cfg := &logging.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Level != "info" {
		t.Errorf("level: got %s, want info", cfg.Level)
	}
	if cfg.Format != logging.FormatText {
		t.Errorf("format: got %s, want text", cfg.Format)
	}
	if cfg.MaxSizeMB != 100 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 28 {
		t.Errorf("rotation defaults: got %d/%d/%d", cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	}
}

func TestConfigFinalize_Env(t *testing.T) {
	env := &logging.Env{
		Level:    "TEST_LOG_LEVEL",
		Format:   "TEST_LOG_FORMAT",
		Compress: "TEST_LOG_COMPRESS",
	}
	t.Setenv(env.Level, "debug")
	t.Setenv(env.Format, "JSON")
	t.Setenv(env.Compress, "true")

	cfg := &logging.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level: got %v, want debug", cfg.SlogLevel())
	}
	if cfg.Format != logging.FormatJSON {
		t.Errorf("format: got %s, want json", cfg.Format)
	}
	if !cfg.Compress {
		t.Error("compress: want true")
	}
}

func TestConfigFinalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  logging.Config
	}{
		{"unknown level", logging.Config{Level: "loud"}},
		{"unknown format", logging.Config{Format: "xml"}},
		{"negative backups", logging.Config{MaxBackups: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := logging.Config{Level: "info", Format: "text", MaxBackups: 3}
	base.Merge(&logging.Config{Level: "warn", File: "/var/log/finsight.log"})

	if base.Level != "warn" {
		t.Errorf("level: got %s, want warn", base.Level)
	}
	if base.Format != "text" {
		t.Errorf("format: got %s, want text", base.Format)
	}
	if base.File != "/var/log/finsight.log" {
		t.Errorf("file: got %s", base.File)
	}
	if base.MaxBackups != 3 {
		t.Errorf("max_backups: got %d, want 3", base.MaxBackups)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	cfg := &logging.Config{Format: "json", Level: "warn"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	var buf bytes.Buffer
	logger := logging.NewWithWriter(cfg, &buf)

	logger.Info("dropped")
	logger.With("system", "analysis").Warn("kept", "documents", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec["msg"] != "kept" || rec["system"] != "analysis" {
		t.Errorf("unexpected record: %v", rec)
	}
	if rec["documents"] != float64(3) {
		t.Errorf("documents: got %v", rec["documents"])
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	cfg := &logging.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	var buf bytes.Buffer
	logging.NewWithWriter(cfg, &buf).Info("started", "port", 8080)

	if !strings.Contains(buf.String(), "msg=started") || !strings.Contains(buf.String(), "port=8080") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finsight.log")
	cfg := &logging.Config{File: path}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	logger := logging.New(cfg)
	logger.Info("written to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing record: %s", data)
	}
}

func TestClose_Stderr(t *testing.T) {
	cfg := &logging.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if err := logging.New(cfg).Close(); err != nil {
		t.Errorf("close stderr logger: %v", err)
	}
}
