package scanner

import (
	"context"
	"testing"

	"stockbin/internal/config"
)

func TestNewMonitor(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		if m := NewMonitor(nil, nil, nil); m != nil {
			t.Error("expected nil monitor for nil config")
		}
	})

	t.Run("disabled monitor returns nil", func(t *testing.T) {
		cfg := &config.Config{}
		if m := NewMonitor(cfg, nil, nil); m != nil {
			t.Error("expected nil monitor when disabled")
		}
	})

	t.Run("enabled config creates monitor", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Scanner.MonitorEnabled = true
		if m := NewMonitor(cfg, nil, nil); m == nil {
			t.Fatal("expected non-nil monitor")
		}
	})
}

func TestMonitorNilSafety(t *testing.T) {
	var m *Monitor
	if m.Running() {
		t.Error("nil monitor must not report running")
	}
	m.Stop() // must not panic
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start on nil monitor should return nil, got: %v", err)
	}
}

func TestStopOnUnstartedMonitorIsSafe(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scanner.MonitorEnabled = true
	m := NewMonitor(cfg, nil, nil)
	m.Stop()
	if m.Running() {
		t.Error("expected Running() false after Stop on unstarted monitor")
	}
}
