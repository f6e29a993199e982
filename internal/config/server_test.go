package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/finsight/internal/config"
)

func TestServerConfigDefaults(t *testing.T) {
	var cfg config.ServerConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"read", cfg.ReadTimeoutDuration(), time.Minute},
		{"read header", cfg.ReadHeaderTimeoutDuration(), 10 * time.Second},
		{"write", cfg.WriteTimeoutDuration(), 15 * time.Minute},
		{"idle", cfg.IdleTimeoutDuration(), 2 * time.Minute},
		{"shutdown", cfg.ShutdownTimeoutDuration(), 30 * time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s timeout = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestServerConfigEnv(t *testing.T) {
	t.Setenv("FINSIGHT_SERVER_HOST", "::1")
	t.Setenv("FINSIGHT_SERVER_PORT", "9443")
	t.Setenv("FINSIGHT_SERVER_IDLE_TIMEOUT", "5m")

	var cfg config.ServerConfig
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if addr := cfg.Addr(); addr != "[::1]:9443" {
		t.Errorf("Addr() = %q, want [::1]:9443", addr)
	}
	if cfg.IdleTimeoutDuration() != 5*time.Minute {
		t.Errorf("idle timeout = %s, want 5m", cfg.IdleTimeoutDuration())
	}
}

func TestServerConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{"port not a number", "FINSIGHT_SERVER_PORT", "http", "FINSIGHT_SERVER_PORT"},
		{"negative idle", "FINSIGHT_SERVER_IDLE_TIMEOUT", "-1s", "invalid idle_timeout"},
		{"bad header timeout", "FINSIGHT_SERVER_READ_HEADER_TIMEOUT", "soon", "invalid read_header_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			var cfg config.ServerConfig
			err := cfg.Finalize()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Finalize() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfigMerge(t *testing.T) {
	base := config.ServerConfig{Host: "0.0.0.0", Port: 8080, ReadTimeout: "1m", IdleTimeout: "2m"}
	base.Merge(&config.ServerConfig{Port: 9090, IdleTimeout: "30s"})

	if base.Host != "0.0.0.0" || base.Port != 9090 || base.ReadTimeout != "1m" || base.IdleTimeout != "30s" {
		t.Errorf("merged = %+v", base)
	}
}
