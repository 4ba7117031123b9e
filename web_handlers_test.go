package main

import (
	"encoding/json"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/elijahnyp/busylight/util"
)

func TestStatusSnapshotRoundtrip(t *testing.T) {
	UpdateStatusSnapshot(ColorRed, "In meeting: standup (until 10:00)", true, 3)

	snap := GetStatusSnapshot()
	if snap.Status != "busy" {
		t.Errorf("Status = %s, expected busy", snap.Status)
	}
	if snap.Color != ColorRed {
		t.Errorf("Color = %v, expected %v", snap.Color, ColorRed)
	}
	if !snap.CameraOn || snap.Appointments != 3 {
		t.Errorf("snapshot lost fields: %+v", snap)
	}
	if snap.Updated.IsZero() {
		t.Error("Updated should be set")
	}
}

func TestStateApi(t *testing.T) {
	UpdateStatusSnapshot(ColorGreen, "manually free", false, 0)

	req := httptest.NewRequest("GET", "/api/state", nil)
	w := httptest.NewRecorder()
	StateApi(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, expected 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, expected application/json", ct)
	}

	var snap StatusSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if snap.Status != "free" || snap.Message != "manually free" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStateApi_BadMethod(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/state", nil)
	w := httptest.NewRecorder()
	StateApi(w, req)

	if w.Code != 400 {
		t.Errorf("status = %d, expected 400", w.Code)
	}
}

func TestStatusOverview(t *testing.T) {
	UpdateStatusSnapshot(ColorRed, "In meeting: standup (until 10:00)", false, 1)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()
	StatusOverview(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, expected 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "busy") || !strings.Contains(body, "standup") {
		t.Errorf("overview missing status fields: %s", body)
	}
}

func TestStatusImage(t *testing.T) {
	UpdateStatusSnapshot(ColorRed, "In meeting: standup", false, 1)

	req := httptest.NewRequest("GET", "/status.png", nil)
	w := httptest.NewRecorder()
	StatusImage(w, req)

	if w.Code != 200 {
		t.Fatalf("status = %d, expected 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %s, expected image/png", ct)
	}

	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("response is not a decodable PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("swatch should not be empty")
	}
}

func TestScaleChannel(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		expected uint8
	}{
		{"Zero", 0, 0},
		{"Full scale", 20, 255},
		{"Clamped high", 40, 255},
		{"Clamped low", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleChannel(tt.in); got != tt.expected {
				t.Errorf("scaleChannel(%d) = %d, expected %d", tt.in, got, tt.expected)
			}
		})
	}
}
