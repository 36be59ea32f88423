package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	s, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.EnvFile != ".env" || s.Pacing != 2*time.Second || s.HTTPTimeout != 10*time.Second {
		t.Errorf("defaults = %+v", s)
	}
	if s.OAuth2RedirectURL != "http://localhost:8081/callback" || s.OAuth2Timeout != 5*time.Minute {
		t.Errorf("oauth2 defaults = %q %s", s.OAuth2RedirectURL, s.OAuth2Timeout)
	}
	if s.HistoryPath != "" {
		t.Errorf("history enabled by default: %q", s.HistoryPath)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	config := "pacing: 5s\nhttp:\n  timeout: 30s\n  proxy: socks5://127.0.0.1:9050\nx:\n  api_url: http://file.example\n"
	if err := os.WriteFile(filepath.Join(dir, "contentnuke.yaml"), []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTENT_NUKE_HTTP_TIMEOUT", "45s")

	v := New()
	fs := Flags()
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}
	if err := fs.Parse([]string{"--pacing", "0s", "--history", "h.db"}); err != nil {
		t.Fatal(err)
	}

	s, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Pacing != 0 {
		t.Errorf("Pacing = %s, want flag value 0s", s.Pacing)
	}
	if s.HTTPTimeout != 45*time.Second {
		t.Errorf("HTTPTimeout = %s, want env value 45s", s.HTTPTimeout)
	}
	if s.HTTPProxy != "socks5://127.0.0.1:9050" || s.XAPIURL != "http://file.example" {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.HistoryPath != "h.db" {
		t.Errorf("HistoryPath = %q, want h.db", s.HistoryPath)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTENT_NUKE_HTTP_TIMEOUT", "0s")
	if _, err := Load(New(), ""); err == nil {
		t.Error("expected error for zero timeout")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("pacing: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTENT_NUKE_HTTP_TIMEOUT", "10s")
	if _, err := Load(New(), bad); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	s := &Settings{LogLevel: "warn", LogFormat: "json"}
	if err := s.ConfigureLogging(); err != nil {
		t.Fatalf("ConfigureLogging() error = %v", err)
	}
	if logrus.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %s", logrus.GetLevel())
	}
	if err := (&Settings{LogLevel: "info", LogFormat: "xml"}).ConfigureLogging(); err == nil {
		t.Error("expected error for unknown format")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
