package util

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModulesTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modules")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write modules table: %v", err)
	}
	return path
}

func TestCameraMonitor_Busy(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		module   string
		expected bool
	}{
		{
			"Camera in use",
			"snd_hda_intel 53248 4 -\nuvcvideo 114688 1 -\nvideobuf2_core 40960 1 uvcvideo\n",
			"uvcvideo",
			true,
		},
		{
			"Camera idle",
			"snd_hda_intel 53248 4 -\nuvcvideo 114688 0 -\n",
			"uvcvideo",
			false,
		},
		{
			"Module not loaded",
			"snd_hda_intel 53248 4 -\n",
			"uvcvideo",
			false,
		},
		{
			"Multiple users",
			"uvcvideo 114688 3 chrome,zoom\n",
			"uvcvideo",
			true,
		},
		{
			"Bad refcount column",
			"uvcvideo 114688 junk -\n",
			"uvcvideo",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monitor := CameraMonitor{Path: writeModulesTable(t, tt.content), Module: tt.module}
			busy, err := monitor.Busy()
			if err != nil {
				t.Fatalf("Busy() returned error: %v", err)
			}
			if busy != tt.expected {
				t.Errorf("Busy() = %v, expected %v", busy, tt.expected)
			}
		})
	}
}

func TestCameraMonitor_MissingTable(t *testing.T) {
	monitor := CameraMonitor{Path: "/nonexistent/modules", Module: "uvcvideo"}
	if _, err := monitor.Busy(); err == nil {
		t.Error("Busy() should return an error for a missing table")
	}
}

func TestNewCameraMonitor(t *testing.T) {
	Config.Set("camera_modules_path", "/proc/modules")
	Config.Set("camera_module", "uvcvideo")

	monitor := NewCameraMonitor()
	if monitor.Path != "/proc/modules" {
		t.Errorf("Path = %s, expected /proc/modules", monitor.Path)
	}
	if monitor.Module != "uvcvideo" {
		t.Errorf("Module = %s, expected uvcvideo", monitor.Module)
	}
}
