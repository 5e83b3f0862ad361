package config

import (
	"strings"
	"testing"
	"time"
)

// env returns a LookupFunc backed by a map.
func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 5000, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{Dir: "uploads", MaxFileSize: 1, MaxConcurrent: 1},
		Session: SessionConfig{TTL: time.Hour, SweepInterval: time.Minute},
		Job:     JobConfig{ProgressPollInterval: time.Second},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, UploadLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 5000)
	}
	if cfg.Upload.MaxFileSize != 1<<30 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 1<<30)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Errorf("Upload.Dir = %q, want %q", cfg.Upload.Dir, "uploads")
	}
	if cfg.Upload.MaxConcurrent != 2 || cfg.Upload.MaxWait != 5*time.Second {
		t.Errorf("Upload = %+v, want 2 concurrent uploads waiting 5s", cfg.Upload)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 24*time.Hour)
	}
	if cfg.Job.ProgressPollInterval != 500*time.Millisecond {
		t.Errorf("Job.ProgressPollInterval = %v, want %v", cfg.Job.ProgressPollInterval, 500*time.Millisecond)
	}
	if !cfg.Rate.Enabled || cfg.Rate.UploadLimit != 10 {
		t.Errorf("Rate = %+v, want enabled with upload limit 10", cfg.Rate)
	}
	if cfg.Security.RequireAPIKey {
		t.Error("Security.RequireAPIKey should default to false")
	}
}

func TestLoad_FromProcessEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"PORT":          "8081",
		"UPLOAD_FOLDER": "/var/lib/attrextract",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8081)
	}
	if cfg.Upload.Dir != "/var/lib/attrextract" {
		t.Errorf("Upload.Dir = %q, want %q", cfg.Upload.Dir, "/var/lib/attrextract")
	}
}

func TestLoad_PrimaryWinsOverAlt(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"SERVER_PORT": "7000", "PORT": "8081"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7000)
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"SERVER_READ_TIMEOUT":        "45s",
		"SESSION_TTL":                "1h30m",
		"JOB_PROGRESS_POLL_INTERVAL": "250ms",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 90*time.Minute)
	}
	if cfg.Job.ProgressPollInterval != 250*time.Millisecond {
		t.Errorf("Job.ProgressPollInterval = %v, want %v", cfg.Job.ProgressPollInterval, 250*time.Millisecond)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , ,192.168.0.0/16",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, expected)
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoad_ReportsEveryBadValue(t *testing.T) {
	_, err := LoadFrom(env(map[string]string{
		"SERVER_PORT":        "eighty",
		"SESSION_TTL":        "forever",
		"RATE_LIMIT_ENABLED": "maybe",
	}))
	if err == nil {
		t.Fatal("LoadFrom() expected error")
	}
	for _, name := range []string{"SERVER_PORT", "SESSION_TTL", "RATE_LIMIT_ENABLED"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should mention %s: %v", name, err)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1048576", 1 << 20, false},
		{"1GiB", 1 << 30, false},
		{"512MiB", 512 << 20, false},
		{"512 mib", 512 << 20, false},
		{"64KiB", 64 << 10, false},
		{"100MB", 100_000_000, false},
		{"10B", 10, false},
		{"", 0, true},
		{"lots", 0, true},
		{"-1", 0, true},
		{"1.5GiB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoad_MaxFileSizeWithUnit(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"UPLOAD_MAX_FILE_SIZE": "200MiB"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Upload.MaxFileSize != 200<<20 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 200<<20)
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"no shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "SERVER_SHUTDOWN_TIMEOUT"},
		{"empty upload dir", func(c *Config) { c.Upload.Dir = "" }, "UPLOAD_DIR"},
		{"zero file size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "UPLOAD_MAX_FILE_SIZE"},
		{"zero concurrent uploads", func(c *Config) { c.Upload.MaxConcurrent = 0 }, "UPLOAD_MAX_CONCURRENT"},
		{"negative upload wait", func(c *Config) { c.Upload.MaxWait = -time.Second }, "UPLOAD_MAX_WAIT"},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }, "SESSION_TTL"},
		{"ttl without sweep", func(c *Config) { c.Session.SweepInterval = 0 }, "SESSION_SWEEP_INTERVAL"},
		{"zero poll interval", func(c *Config) { c.Job.ProgressPollInterval = 0 }, "JOB_PROGRESS_POLL_INTERVAL"},
		{"zero rate", func(c *Config) { c.Rate.RequestsPerMinute = 0 }, "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"zero upload rate", func(c *Config) { c.Rate.UploadLimit = 0 }, "RATE_LIMIT_UPLOAD"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_DisabledRateLimitIgnoresLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Rate = RateLimitConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 5000, ":5000"},
		{"0.0.0.0", 5000, "0.0.0.0:5000"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"::1", 443, "[::1]:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"sk-live-secret", "sk-live-other"}

	str := cfg.String()
	if strings.Contains(str, "secret") || strings.Contains(str, "other") {
		t.Errorf("String() should mask API keys: %s", str)
	}
	if !strings.Contains(str, "MASKED x2") {
		t.Errorf("String() should contain MASKED placeholder: %s", str)
	}
}
