package scanner

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"stockbin/internal/config"
	"stockbin/internal/logging"
)

// Monitor listens for udev netlink events and reports barcode scanner attach
// and detach. It exists so an interactive session can tell the operator when
// the scanner drops off mid-count instead of silently eating scans.
type Monitor struct {
	logger  *slog.Logger
	handler func(device string, attached bool)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a hotplug monitor. Returns nil when monitoring is
// disabled in config, which callers treat as a no-op monitor.
func NewMonitor(cfg *config.Config, logger *slog.Logger, handler func(device string, attached bool)) *Monitor {
	if cfg == nil || !cfg.Scanner.MonitorEnabled {
		return nil
	}
	return &Monitor{
		logger:  logging.NewComponentLogger(logger, "scanner-monitor"),
		handler: handler,
	}
}

// Start begins listening for udev netlink events. A failed netlink connection
// is non-fatal; scanning still works, only hotplug notices are lost.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; scanner hotplug notices unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"))
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("scanner hotplug monitor started",
		logging.String(logging.FieldEventType, "scanner_monitor_started"))

	return nil
}

// Stop shuts down the monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("scanner hotplug monitor stopped",
		logging.String(logging.FieldEventType, "scanner_monitor_stopped"))
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("netlink monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "netlink_monitor_error"))
		}
	}
}

// buildMatcher matches HID keyboard devices appearing or disappearing:
// SUBSYSTEM=input, ID_INPUT_KEYBOARD=1, ACTION=add|remove.
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":         "input",
			"ID_INPUT_KEYBOARD": "1",
		},
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	devname := extractDeviceName(uevent)
	if devname == "" {
		m.logger.Debug("ignoring event without device name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj))
		return
	}

	attached := uevent.Action == netlink.ADD

	m.logger.Info("scanner hotplug event",
		logging.String(logging.FieldEventType, "scanner_hotplug"),
		logging.String("device", devname),
		logging.Bool("attached", attached))

	if m.handler != nil {
		m.handler(devname, attached)
	}
}

func extractDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}

	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return "/dev/" + parts[len(parts)-1]
}
