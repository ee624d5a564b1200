package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MinterTeam/influence-pool/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.LogPath = filepath.Join(t.TempDir(), "node.log")
	cfg.LogFormat = config.LogFormatJSON
	cfg.LogLevel = "distributor:info,*:error"

	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}

	logger.With("module", "distributor").Info("snapshot recorded", "index", 1)
	logger.With("module", "api").Info("filtered out")

	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "snapshot recorded") {
		t.Fatalf("Expected distributor message in log: %s", data)
	}

	if strings.Contains(string(data), "filtered out") {
		t.Fatalf("Message below level must be filtered: %s", data)
	}
}

func TestNewLoggerUnsupportedFormat(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.LogFormat = "xml"

	if _, err := NewLogger(cfg); err == nil {
		t.Fatal("Expected error for unsupported format")
	}
}
