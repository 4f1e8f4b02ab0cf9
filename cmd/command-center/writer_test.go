package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"command-center/internal/center"
	"command-center/internal/config"
)

func TestNewWritersPrintOnly(t *testing.T) {
	w, cleanup, err := newWriters(&config.CenterConfig{}, true, "", false)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*center.StdoutWriter); !ok {
		t.Fatalf("expected *center.StdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newWriters(&config.CenterConfig{}, false, "", false)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*center.StdoutWriter); !ok {
		t.Fatalf("expected *center.StdoutWriter, got %T", w)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "center.log")
	w, cleanup, err := newWriters(&config.CenterConfig{}, true, path, false)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*center.MultiWriter); !ok {
		t.Fatalf("expected *center.MultiWriter, got %T", w)
	}

	row := center.StatusRow{RefreshID: "r1", Code: "AFK", Health: 92, Timestamp: time.Now()}
	if err := w.WriteStatus(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteSummary(center.SummaryRow{RefreshID: "r1", SnapshotState: center.SnapshotOK, Timestamp: time.Now()}); err != nil {
		t.Fatalf("write summary failed: %v", err)
	}

	cleanup()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	sumInfo, err := os.Stat(path + ".summary")
	if err != nil {
		t.Fatalf("stat summary failed: %v", err)
	}
	if sumInfo.Size() == 0 {
		t.Fatalf("expected summary file to be non-empty")
	}
}
