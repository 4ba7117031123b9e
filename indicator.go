package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	. "github.com/elijahnyp/busylight/util"
)

const (
	MANUAL_NONE = iota
	MANUAL_BUSY
	MANUAL_FREE
)

const (
	ACTION_NONE = iota
	ACTION_OFF
	ACTION_BUSY
	ACTION_GREEN
)

// swapped out in tests
var timeNow = time.Now

var (
	busy_line = color.New(color.FgRed, color.Bold)
	free_line = color.New(color.FgGreen)
)

// SessionState is owned by DispatchRoutine. Nothing else reads or writes it.
type SessionState struct {
	appointments    []Appointment
	ignore_set      map[string]bool
	manual_mode     int
	camera_on       bool
	calendar_synced bool
}

func NewSessionState() *SessionState {
	return &SessionState{ignore_set: make(map[string]bool)}
}

// Evaluate recomputes what the light should show right now and pushes the
// result to the controller. Any panic is absorbed - a bad cycle must not
// kill the loop, the next tick simply tries again.
func (s *SessionState) Evaluate(action int) {
	defer func() {
		if r := recover(); r != nil {
			Logger.Error().Msgf("evaluation failed: %v", r)
		}
	}()
	now := timeNow()

	// working copy; the camera pseudo-appointment never persists into state
	working := make([]Appointment, len(s.appointments))
	copy(working, s.appointments)
	if s.camera_on {
		working = append(working, CameraAppointment())
	}

	var current []Appointment
	for _, a := range working {
		if a.InMeeting(now, MeetingFuzz) && !a.IsLongMeeting(LongMeetingThreshold, LongMeetingSentinel) {
			current = append(current, a)
		}
	}

	if action == ACTION_OFF {
		s.ignore_set = make(map[string]bool)
		for _, a := range current {
			s.ignore_set[a.Canonical()] = true
		}
		s.manual_mode = MANUAL_NONE
	}

	if len(current) == 0 {
		// nothing active, nothing left to suppress
		s.ignore_set = make(map[string]bool)
	}

	var remaining []Appointment
	for _, a := range current {
		if !s.ignore_set[a.Canonical()] {
			remaining = append(remaining, a)
		}
	}

	switch action {
	case ACTION_BUSY:
		s.manual_mode = MANUAL_BUSY
	case ACTION_GREEN:
		s.manual_mode = MANUAL_FREE
	}

	var col Color
	var message string
	switch {
	case s.manual_mode == MANUAL_BUSY:
		col, message = ColorRed, "manually busy"
	case s.manual_mode == MANUAL_FREE:
		col, message = ColorGreen, "manually free"
	case len(remaining) > 0:
		// prefer a strict match over one only inside the fuzz window
		pick := remaining[0]
		for _, a := range remaining {
			if a.InMeeting(now, 0) {
				pick = a
				break
			}
		}
		col = ColorRed
		message = fmt.Sprintf("In meeting: %s (until %s)", pick.Description, pick.End.Format("15:04"))
	case len(s.ignore_set) > 0:
		col, message = ColorOff, "not in a meeting (manual override)"
	default:
		col = ColorOff
		if next, ok := NextMeeting(s.appointments, now); ok {
			message = fmt.Sprintf("next meeting: %s at %s", next.Description, next.Start.Format("15:04"))
		} else {
			message = "no meetings"
		}
	}

	s.show(now, col, message)
}

func (s *SessionState) show(now time.Time, col Color, message string) {
	stamp := now.Format("2006-01-02 15:04:05")
	// \r\n - stdout shares the terminal with raw-mode input
	switch col {
	case ColorRed:
		busy_line.Printf("%s %s\r\n", stamp, message)
	case ColorGreen:
		free_line.Printf("%s %s\r\n", stamp, message)
	default:
		fmt.Printf("%s %s\r\n", stamp, message)
	}
	Logger.Debug().Msgf("resolved color %v: %s", col, message)
	light_controller.SetColor(col[0], col[1], col[2])
	PublishStatus(statusName(col))
	UpdateStatusSnapshot(col, message, s.camera_on, len(s.appointments))
}

func statusName(col Color) string {
	switch col {
	case ColorRed:
		return "busy"
	case ColorGreen:
		return "free"
	default:
		return "off"
	}
}
