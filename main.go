package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	. "github.com/elijahnyp/busylight/util"
)

var light_controller *LightController

func main() {
	LogInit("info")
	SetupConfig()
	RegisterNewConfigListener(func() { LogInit(Config.GetString("log_level")) })

	calendars := flag.String("calendars", "", "comma-separated calendar names (required unless set in config)")
	interval := flag.Int("interval", 0, "calendar poll interval in seconds (default 60)")
	flag.Parse()
	if *calendars != "" {
		Config.Set("calendars", strings.Split(*calendars, ","))
	}
	if *interval > 0 {
		Config.Set("poll_interval", *interval)
	}
	if len(Config.GetStringSlice("calendars")) == 0 {
		fmt.Fprintln(os.Stderr, "no calendars given - use -calendars or the config file")
		flag.Usage()
		os.Exit(2)
	}

	RegisterMQTTConnectHook("haadvertise", func(client MQTT.Client) { AdvertiseHA(client) })
	RegisterMQTTSubscription(CommandTopic, commandReceiver)
	RegisterNewConfigListener(MqttInit)
	OnNewConfig()

	light_controller = NewLightController(CommandSink{})

	monitor := NewMonitorServer()
	monitor.AddHandler("/status", StatusOverview)
	monitor.AddHandler("/status.png", StatusImage)
	monitor.AddHandler("/api/state", StateApi)
	if err := monitor.Start(); err != nil {
		Logger.Error().Msgf("Error starting monitor server: %v", err)
	}
	RegisterNewConfigListener(func() { monitor.Restart() })

	go TickerRoutine()
	go CameraMonitorRoutine(NewCameraMonitor().Busy)
	go KeyListenerRoutine()
	StartCalendarPoller(GcalFetcher{})

	Logger.Info().Msg("ready")
	DispatchRoutine()
}

/* ***************************************
Dispatcher - sole consumer and sole owner of session state
*/

func DispatchRoutine() {
	state := NewSessionState()
	for event := range event_channel {
		HandleEvent(state, event)
	}
}

// HandleEvent processes one event to completion. Events are handled strictly
// in arrival order, one at a time - that serialization is what makes the
// lock-free session state safe.
func HandleEvent(state *SessionState, event Event) {
	switch event.Type {
	case APPOINTMENTS:
		state.appointments = event.Appointments
		if !state.calendar_synced {
			state.calendar_synced = true
			printTodaysMeetings(state.appointments)
			state.Evaluate(ACTION_NONE)
		}
	case TICK:
		// don't flash the default state before real data exists
		if state.calendar_synced {
			state.Evaluate(ACTION_NONE)
		}
	case CAMERA_ON:
		state.camera_on = true
		state.Evaluate(ACTION_NONE)
	case CAMERA_OFF:
		state.camera_on = false
		state.Evaluate(ACTION_NONE)
	case KEY:
		HandleKey(state, event.Key)
	}
}

func HandleKey(state *SessionState, key byte) {
	switch key {
	case 'b':
		state.Evaluate(ACTION_BUSY)
	case 'g':
		state.Evaluate(ACTION_GREEN)
	case 'o':
		state.Evaluate(ACTION_OFF)
	case '.':
		state.Evaluate(ACTION_NONE)
	case 'n':
		printNextMeeting(state.appointments)
	case 'a':
		printFutureMeetings(state.appointments)
	case 'h', '?':
		printHelp()
	case 'q':
		RestoreTerminal()
		fmt.Printf("bye\r\n")
		os.Exit(0)
	default:
		Logger.Warn().Msgf("unknown key %q", key)
		state.Evaluate(ACTION_NONE)
	}
}

func printTodaysMeetings(appointments []Appointment) {
	now := timeNow()
	end_of_day := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	printed := 0
	for _, a := range FutureMeetings(appointments, now) {
		if a.Start.Before(end_of_day) {
			fmt.Printf("%s - %s  %s\r\n", a.Start.Format("15:04"), a.End.Format("15:04"), a.Description)
			printed++
		}
	}
	if printed == 0 {
		fmt.Printf("no more meetings today\r\n")
	}
}

func printFutureMeetings(appointments []Appointment) {
	future := FutureMeetings(appointments, timeNow())
	if len(future) == 0 {
		fmt.Printf("no upcoming meetings\r\n")
		return
	}
	for _, a := range future {
		fmt.Printf("%s - %s  %s\r\n", a.Start.Format("Mon 2006-01-02 15:04"), a.End.Format("15:04"), a.Description)
	}
}

func printNextMeeting(appointments []Appointment) {
	if next, ok := NextMeeting(appointments, timeNow()); ok {
		fmt.Printf("next meeting: %s at %s\r\n", next.Description, next.Start.Format("Mon 2006-01-02 15:04"))
	} else {
		fmt.Printf("no upcoming meetings\r\n")
	}
}

func printHelp() {
	fmt.Printf("keys:\r\n")
	fmt.Printf("  b  force busy (red)\r\n")
	fmt.Printf("  g  force free (green)\r\n")
	fmt.Printf("  o  light off, ignore current meeting\r\n")
	fmt.Printf("  .  refresh now\r\n")
	fmt.Printf("  n  show next meeting\r\n")
	fmt.Printf("  a  show all upcoming meetings\r\n")
	fmt.Printf("  h  this help\r\n")
	fmt.Printf("  q  quit\r\n")
}
