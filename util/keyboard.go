package util

import (
	"os"

	"golang.org/x/term"
)

var term_state *term.State

// RawTerminal puts stdin into raw mode so single keystrokes arrive without
// echo or line buffering. Callers must arrange for RestoreTerminal on exit.
func RawTerminal() error {
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	term_state = state
	return nil
}

// RestoreTerminal undoes RawTerminal. Safe to call when raw mode was never
// entered.
func RestoreTerminal() {
	if term_state == nil {
		return
	}
	if err := term.Restore(int(os.Stdin.Fd()), term_state); err != nil {
		Logger.Error().Msgf("Error restoring terminal: %v", err)
	}
	term_state = nil
}

// ReadKey blocks for a single keystroke from stdin.
func ReadKey() (byte, error) {
	buf := make([]byte, 1)
	if _, err := os.Stdin.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}
