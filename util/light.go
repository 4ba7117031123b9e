package util

import (
	"os/exec"
	"strconv"
)

// Color is an RGB triple on the 0-20 scale the light hardware expects.
type Color [3]int

var (
	ColorRed   = Color{20, 0, 0}
	ColorGreen = Color{0, 20, 0}
	ColorOff   = Color{0, 0, 0}
)

// LightSink delivers one color command to the light hardware.
type LightSink interface {
	Set(r, g, b int) error
}

// CommandSink drives the light by running an external command with the
// three channel values appended as arguments.
type CommandSink struct{}

func (CommandSink) Set(r, g, b int) error {
	cmd := exec.Command(Config.GetString("light_command"),
		strconv.Itoa(r), strconv.Itoa(g), strconv.Itoa(b))
	return cmd.Run()
}

// repeats of the same color allowed through before suppression kicks in
const light_repeat_limit = 3

// LightController sends color commands to a sink, deduplicating repeats.
// The hardware holds its last state, so after the second send of the same
// color further repeats are suppressed until the color changes. A failing
// sink is logged and absorbed - the indicator must keep running with the
// light unplugged.
type LightController struct {
	sink      LightSink
	last      Color
	have_last bool
	repeats   int
}

func NewLightController(sink LightSink) *LightController {
	return &LightController{sink: sink}
}

func (lc *LightController) SetColor(r, g, b int) {
	requested := Color{r, g, b}
	if lc.have_last && requested == lc.last {
		lc.repeats++
		if lc.repeats >= light_repeat_limit {
			Logger.Debug().Msgf("suppressing repeated light command %v (repeat %d)", requested, lc.repeats)
			return
		}
	} else {
		lc.repeats = 1
		lc.last = requested
		lc.have_last = true
	}
	if err := lc.sink.Set(r, g, b); err != nil {
		Logger.Error().Msgf("Error setting light to %v: %v", requested, err)
	}
}

// LastColor returns the most recently requested color, for status surfaces.
func (lc *LightController) LastColor() (Color, bool) {
	return lc.last, lc.have_last
}
