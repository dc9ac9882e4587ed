// Package scanner watches udev netlink events for barcode scanner hotplug.
// Scanners enumerate as HID keyboards, so the monitor matches input-subsystem
// keyboard devices and reports attach and detach to the caller.
package scanner
