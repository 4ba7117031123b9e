package util

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// CalendarFetcher produces the appointments of a single named calendar.
type CalendarFetcher interface {
	Fetch(calendar string) ([]Appointment, error)
}

// GcalFetcher shells out to a gcalcli-style agenda command. The command and
// base arguments come from config; the calendar name is appended via
// --calendar. Output must be the tab-separated agenda format understood by
// ParseAgenda.
type GcalFetcher struct{}

func (f GcalFetcher) Fetch(calendar string) ([]Appointment, error) {
	timeout := time.Duration(Config.GetInt64("gcal_timeout")) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := append([]string{}, Config.GetStringSlice("gcal_args")...)
	args = append(args, "--calendar", calendar)
	cmd := exec.CommandContext(ctx, Config.GetString("gcal_command"), args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return ParseAgenda(string(out), time.Local), nil
}

// FetchAll merges the appointments of every calendar into one sorted,
// de-duplicated collection. A calendar that fails to fetch is logged and
// skipped; the next poll cycle retries it naturally. An error is returned
// only when every calendar failed - an empty result from a reachable
// calendar is real data.
func FetchAll(fetcher CalendarFetcher, calendars []string) ([]Appointment, error) {
	var merged []Appointment
	fetched := 0
	for _, calendar := range calendars {
		appointments, err := fetcher.Fetch(calendar)
		if err != nil {
			Logger.Warn().Msgf("Error fetching calendar %s: %v", calendar, err)
			continue
		}
		fetched++
		merged = append(merged, appointments...)
	}
	if fetched == 0 && len(calendars) > 0 {
		return nil, fmt.Errorf("all %d calendar fetches failed", len(calendars))
	}
	return SortAppointments(merged), nil
}
