package main

import (
	"fmt"
	"time"
	"unicode"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	. "github.com/elijahnyp/busylight/util"
	cron "github.com/robfig/cron/v3"
)

// event types
const (
	TICK = iota
	APPOINTMENTS
	CAMERA_ON
	CAMERA_OFF
	KEY
)

type Event struct {
	Appointments []Appointment
	Type         int
	Key          byte
}

// All producers feed this channel; DispatchRoutine is the only consumer and
// the only place session state is touched, so no locks are needed anywhere
// in the decision path.
var event_channel = make(chan Event, 10)

/* ***************************************
Producers
*/

// TickerRoutine emits TICK every tick_interval seconds, aligned to the wall
// clock so the first tick lands on an interval boundary.
func TickerRoutine() {
	interval := time.Duration(Config.GetInt64("tick_interval")) * time.Second
	now := time.Now()
	time.Sleep(now.Truncate(interval).Add(interval).Sub(now))
	event_channel <- Event{Type: TICK}
	ticker := time.NewTicker(interval)
	for range ticker.C {
		event_channel <- Event{Type: TICK}
	}
}

// StartCalendarPoller schedules calendar fetches on poll_interval and emits
// the full replacement collection each cycle. An extra immediate fetch runs
// at startup so the first data doesn't wait a whole interval.
func StartCalendarPoller(fetcher CalendarFetcher) *cron.Cron {
	poll := func() {
		appointments, err := FetchAll(fetcher, Config.GetStringSlice("calendars"))
		if err != nil {
			Logger.Warn().Msgf("calendar poll produced no data: %v", err)
			return
		}
		event_channel <- Event{Type: APPOINTMENTS, Appointments: appointments}
	}
	c := cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %ds", Config.GetInt("poll_interval"))
	if _, err := c.AddFunc(spec, poll); err != nil {
		Logger.Error().Msgf("Error scheduling calendar poll %q: %v", spec, err)
	}
	c.Start()
	go poll()
	return c
}

// cameraWatcher turns level reads of the camera flag into edge events, so
// the channel sees one CAMERA_ON per transition instead of one per poll.
type cameraWatcher struct {
	last bool
}

func (w *cameraWatcher) observe(on bool) (Event, bool) {
	if on == w.last {
		return Event{}, false
	}
	w.last = on
	if on {
		return Event{Type: CAMERA_ON}, true
	}
	return Event{Type: CAMERA_OFF}, true
}

// CameraMonitorRoutine polls the camera collaborator on a tight interval and
// emits only on transitions.
func CameraMonitorRoutine(busy func() (bool, error)) {
	interval := time.Duration(Config.GetInt64("camera_poll_interval")) * time.Second
	var watcher cameraWatcher
	for {
		on, err := busy()
		if err != nil {
			Logger.Warn().Msgf("Error reading camera state: %v", err)
		} else if event, changed := watcher.observe(on); changed {
			event_channel <- event
		}
		time.Sleep(interval)
	}
}

// KeyListenerRoutine reads raw keystrokes and emits them case-folded. A read
// error ends the routine; the interactive session is gone at that point
// anyway.
func KeyListenerRoutine() {
	if err := RawTerminal(); err != nil {
		Logger.Error().Msgf("Error entering raw mode (keyboard disabled): %v", err)
		return
	}
	for {
		key, err := ReadKey()
		if err != nil {
			Logger.Error().Msgf("Error reading key: %v", err)
			return
		}
		event_channel <- Event{Type: KEY, Key: byte(unicode.ToLower(rune(key)))}
	}
}

// commandReceiver maps remote MQTT commands onto the same actions the
// keyboard produces. 'q' is deliberately not reachable from here.
func commandReceiver(client MQTT.Client, message MQTT.Message) {
	switch string(message.Payload()) {
	case "busy":
		event_channel <- Event{Type: KEY, Key: 'b'}
	case "green", "free":
		event_channel <- Event{Type: KEY, Key: 'g'}
	case "off":
		event_channel <- Event{Type: KEY, Key: 'o'}
	default:
		Logger.Warn().Msgf("unknown command payload %q on %s", message.Payload(), message.Topic())
	}
}
