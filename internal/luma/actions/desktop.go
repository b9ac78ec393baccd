package actions

import (
	"context"
	"fmt"
	"strings"
)

// Desktop performs host-level actions through its runners. Launches use a
// detaching runner so the session does not block behind a browser; short
// verbs like volume changes wait for completion.
type Desktop struct {
	run   Runner
	start Runner
}

// NewDesktop creates a Desktop using run for short commands and start for
// long-lived launches.
func NewDesktop(run, start Runner) *Desktop {
	return &Desktop{run: run, start: start}
}

// OpenSite opens the site in the default browser.
func (d *Desktop) OpenSite(ctx context.Context, site Site) error {
	return d.start.Run(ctx, []string{"xdg-open", site.URL})
}

// OpenApp launches the application.
func (d *Desktop) OpenApp(ctx context.Context, app App) error {
	return d.start.Run(ctx, app.OpenArgv)
}

// CloseApp terminates the application's processes.
func (d *Desktop) CloseApp(ctx context.Context, app App) error {
	return d.run.Run(ctx, []string{"pkill", "-f", app.Process})
}

// deviceVerbs is checked in order; the first phrase found in the utterance
// selects the command.
var deviceVerbs = []struct {
	Phrase string
	Argv   []string
}{
	{"volume up", []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "+10%"}},
	{"volume down", []string{"pactl", "set-sink-volume", "@DEFAULT_SINK@", "-10%"}},
	{"mute", []string{"pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle"}},
	{"screenshot", []string{"gnome-screenshot"}},
	{"scroll up", []string{"xdotool", "key", "Page_Up"}},
	{"scroll down", []string{"xdotool", "key", "Page_Down"}},
	{"double click", []string{"xdotool", "click", "--repeat", "2", "1"}},
	{"click", []string{"xdotool", "click", "1"}},
}

// MatchDeviceVerb reports whether the utterance names a device verb, and
// which phrase matched. "double click" is checked before "click" so the
// longer phrase wins.
func MatchDeviceVerb(utterance string) (string, bool) {
	lowered := strings.ToLower(utterance)
	for _, v := range deviceVerbs {
		if strings.Contains(lowered, v.Phrase) {
			return v.Phrase, true
		}
	}
	return "", false
}

// DeviceVerb executes the named device verb.
func (d *Desktop) DeviceVerb(ctx context.Context, phrase string) error {
	for _, v := range deviceVerbs {
		if v.Phrase == phrase {
			return d.run.Run(ctx, v.Argv)
		}
	}
	return fmt.Errorf("actions: unknown device verb %q", phrase)
}
