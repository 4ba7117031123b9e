package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	. "github.com/elijahnyp/busylight/util"
)

// StatusSnapshot is the read-only copy of the last resolution, published by
// the dispatcher for the monitor server. The web handlers never touch
// session state directly.
type StatusSnapshot struct {
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	Color        Color     `json:"color"`
	Appointments int       `json:"appointments"`
	CameraOn     bool      `json:"camera_on"`
	Updated      time.Time `json:"updated"`
}

var (
	status_snapshot StatusSnapshot
	snapshot_mu     sync.RWMutex
)

func UpdateStatusSnapshot(col Color, message string, cameraOn bool, appointments int) {
	snapshot_mu.Lock()
	defer snapshot_mu.Unlock()
	status_snapshot = StatusSnapshot{
		Message:      message,
		Status:       statusName(col),
		Color:        col,
		Appointments: appointments,
		CameraOn:     cameraOn,
		Updated:      time.Now(),
	}
}

func GetStatusSnapshot() StatusSnapshot {
	snapshot_mu.RLock()
	defer snapshot_mu.RUnlock()
	return status_snapshot
}

func StatusOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(400)
		if _, err := io.WriteString(w, "Bad Request Method\n"); err != nil {
			Logger.Error().Msgf("Error writing response: %v", err)
		}
		return
	}
	snap := GetStatusSnapshot()
	w.Header().Add("Content-Type", "text/html")
	writeString := func(s string) {
		if _, err := io.WriteString(w, s); err != nil {
			Logger.Error().Msgf("Error writing response: %v", err)
		}
	}
	writeString("<html><body><h3>busylight</h3>")
	writeString("<img src=\"/status.png\" /><br>")
	writeString("<table>")
	writeString(fmt.Sprintf("<tr><th>Status</th><td>%s</td></tr>", snap.Status))
	writeString(fmt.Sprintf("<tr><th>Message</th><td>%s</td></tr>", snap.Message))
	writeString(fmt.Sprintf("<tr><th>Camera</th><td>%v</td></tr>", snap.CameraOn))
	writeString(fmt.Sprintf("<tr><th>Appointments</th><td>%d</td></tr>", snap.Appointments))
	writeString(fmt.Sprintf("<tr><th>Updated</th><td>%s</td></tr>", snap.Updated.Format(time.RFC3339)))
	writeString("</table></body></html>")
}

func StateApi(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(400)
		if _, err := io.WriteString(w, "Bad Request Method\n"); err != nil {
			Logger.Error().Msgf("Error writing response: %v", err)
		}
		return
	}
	data, err := json.Marshal(GetStatusSnapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("Error marshaling response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		Logger.Error().Msgf("Error writing response: %v", err)
	}
}

// StatusImage renders the current light color as a swatch with the status
// line drawn on top.
func StatusImage(w http.ResponseWriter, r *http.Request) {
	snap := GetStatusSnapshot()
	img := RenderStatusSwatch(snap.Color, snap.Message)
	w.Header().Add("Content-Type", "image/png")
	imgWriter := bytes.NewBuffer(nil)
	if err := png.Encode(imgWriter, img); err != nil {
		http.Error(w, "Error encoding image", http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(imgWriter.Bytes()); err != nil {
		Logger.Error().Msgf("Error writing image response: %v", err)
	}
}

func RenderStatusSwatch(col Color, message string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 360, 60))
	// hardware scale is 0-20 per channel
	fill := color.RGBA{scaleChannel(col[0]), scaleChannel(col[1]), scaleChannel(col[2]), 255}
	for x := 0; x < img.Bounds().Max.X; x++ {
		for y := 0; y < img.Bounds().Max.Y; y++ {
			img.Set(x, y, fill)
		}
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: inconsolata.Bold8x16,
		Dot:  fixed.Point26_6{X: fixed.I(8), Y: fixed.I(36)},
	}
	d.DrawString(message)
	return img
}

func scaleChannel(v int) uint8 {
	scaled := v * 255 / 20
	if scaled > 255 {
		scaled = 255
	}
	if scaled < 0 {
		scaled = 0
	}
	return uint8(scaled)
}
