package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Level: "info", Format: "xml", Output: "stderr"}); err == nil {
		t.Fatal("Expected error for unknown format")
	}
}

func TestFileOutputWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escrow.log")

	logger, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quote saved", Money("total_amount", decimal.RequireFromString("1620.00")))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"quote saved"`) {
		t.Errorf("Expected message in log line, got %s", line)
	}
	if !strings.Contains(line, `"total_amount":"1620"`) {
		t.Errorf("Expected money field in log line, got %s", line)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled when level falls back to info")
	}
}
