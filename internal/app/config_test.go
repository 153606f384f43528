package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: 99
ai:
  api_key: "k"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Core.Telegram.RunMode != "longpoll" {
		t.Errorf("run_mode = %q", cfg.Core.Telegram.RunMode)
	}
	if cfg.Operator.ReportHour != 21 {
		t.Errorf("report_hour = %d, want default 21", cfg.Operator.ReportHour)
	}
	if cfg.OperatorChatID() != 99 {
		t.Errorf("operator chat = %d, want admin fallback 99", cfg.OperatorChatID())
	}
}

func TestLoadOperatorChatOverridesAdmin(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  admin_id: 99
operator:
  chat_id: -100500
  report_hour: 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OperatorChatID() != -100500 {
		t.Errorf("operator chat = %d", cfg.OperatorChatID())
	}
	if cfg.Operator.ReportHour != 8 {
		t.Errorf("report_hour = %d", cfg.Operator.ReportHour)
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	if os.Getenv("BOT_TOKEN") != "" {
		t.Skip("BOT_TOKEN set in environment")
	}
	path := writeConfig(t, "telegram:\n  admin_id: 1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestLoadRejectsBadReportHour(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
operator:
  report_hour: 25
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for report_hour 25")
	}
}
