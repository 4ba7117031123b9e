package util

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// MeetingFuzz widens meeting boundaries so the light flips a couple
	// minutes early and stays on a couple minutes after.
	MeetingFuzz = 2 * time.Minute

	// Meetings longer than LongMeetingThreshold never auto-trigger busy -
	// nobody wants to be red all day because of an all-day blocker.
	LongMeetingThreshold = 4 * time.Hour

	// LongMeetingSentinel marks the synthetic camera appointment, which
	// spans an absurd window and must not count as a long meeting.
	LongMeetingSentinel = 100 * 365 * 24 * time.Hour

	CameraMeetingDescription = "In video call"
)

type Appointment struct {
	Start       time.Time
	End         time.Time
	Description string
}

func NewAppointment(start, end time.Time, description string) Appointment {
	return Appointment{Start: start, End: end, Description: description}
}

// Canonical is the identity of an appointment. Used for de-duplication and
// ignore-set membership.
func (a Appointment) Canonical() string {
	return fmt.Sprintf("%s %s %s", a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339), a.Description)
}

// InMeeting reports whether now falls inside the appointment, widened by
// fuzz on both ends. Boundary-inclusive.
func (a Appointment) InMeeting(now time.Time, fuzz time.Duration) bool {
	return !now.Before(a.Start.Add(-fuzz)) && !now.After(a.End.Add(fuzz))
}

// FutureMeeting reports whether the appointment has not started yet,
// counting the fuzz lead-in as already started.
func (a Appointment) FutureMeeting(now time.Time, fuzz time.Duration) bool {
	return !a.Start.Add(-fuzz).Before(now)
}

// IsLongMeeting reports whether the appointment duration is strictly between
// threshold and sentinel. Durations at or beyond the sentinel belong to the
// synthetic camera appointment and are excluded.
func (a Appointment) IsLongMeeting(threshold, sentinel time.Duration) bool {
	d := a.End.Sub(a.Start)
	return d > threshold && d < sentinel
}

// CameraAppointment synthesizes the pseudo-appointment representing an
// active video call. Its window spans 1900..9999 so it matches InMeeting for
// any plausible clock, and its duration trips the sentinel in IsLongMeeting.
func CameraAppointment() Appointment {
	return Appointment{
		Start:       time.Date(1900, 1, 1, 0, 0, 0, 0, time.Local),
		End:         time.Date(9999, 12, 31, 23, 59, 59, 0, time.Local),
		Description: CameraMeetingDescription,
	}
}

// SortAppointments sorts by canonical form and drops duplicates. The
// canonical form starts with the RFC3339 start instant, so the result is
// chronological for a single timezone offset.
func SortAppointments(appointments []Appointment) []Appointment {
	sorted := make([]Appointment, len(appointments))
	copy(sorted, appointments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Canonical() < sorted[j].Canonical()
	})
	out := sorted[:0]
	var prev string
	for i, a := range sorted {
		c := a.Canonical()
		if i == 0 || c != prev {
			out = append(out, a)
		}
		prev = c
	}
	return out
}

// NextMeeting returns the first appointment still in the future, or false if
// there is none. Assumes the input is sorted.
func NextMeeting(appointments []Appointment, now time.Time) (Appointment, bool) {
	for _, a := range appointments {
		if a.FutureMeeting(now, 0) {
			return a, true
		}
	}
	return Appointment{}, false
}

// FutureMeetings returns all appointments that have not started yet.
func FutureMeetings(appointments []Appointment, now time.Time) []Appointment {
	var out []Appointment
	for _, a := range appointments {
		if a.FutureMeeting(now, 0) {
			out = append(out, a)
		}
	}
	return out
}

// ParseAgenda parses tab-separated agenda output into appointments. Each
// line carries start-date, start-time, end-date, end-time and description;
// times are interpreted in loc. Malformed lines are logged and skipped.
func ParseAgenda(data string, loc *time.Location) []Appointment {
	var out []Appointment
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			Logger.Warn().Msgf("malformed agenda line (%d fields): %q", len(fields), line)
			continue
		}
		start, err := time.ParseInLocation("2006-01-02 15:04", fields[0]+" "+fields[1], loc)
		if err != nil {
			Logger.Warn().Msgf("bad agenda start %q %q: %v", fields[0], fields[1], err)
			continue
		}
		end, err := time.ParseInLocation("2006-01-02 15:04", fields[2]+" "+fields[3], loc)
		if err != nil {
			Logger.Warn().Msgf("bad agenda end %q %q: %v", fields[2], fields[3], err)
			continue
		}
		description := strings.Join(fields[4:], " ")
		out = append(out, NewAppointment(start, end, description))
	}
	return out
}
