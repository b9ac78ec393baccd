package session

import (
	"context"
	"strings"

	"github.com/velmoor/luma/internal/luma/actions"
)

// route is one (predicate, handler) pair in the dispatch table.
type route struct {
	name   string
	match  func(utterance string) bool
	handle func(ctx context.Context, utterance string) error
}

var scheduleKeywords = []string{"schedule", "timetable", "agenda", "plan for the day"}

var exitKeywords = []string{"exit", "goodbye", "good bye", "bye", "quit", "that's all"}

// buildRoutes returns the dispatch table. Order is the tie-break: exactly
// one route fires per utterance, the first whose predicate matches. An
// utterance naming both a schedule and an app (say "schedule and open
// chrome") therefore goes to the schedule route.
//
// The open and close routes key on the verb alone; the catalog lookup
// happens inside the handler, so an unknown app gets a spoken notice
// rather than falling through to the chat path.
func (d *Dispatcher) buildRoutes() []route {
	return []route{
		{
			name: "open_site",
			match: func(u string) bool {
				_, ok := actions.MatchSite(u)
				return ok
			},
			handle: d.handleOpenSite,
		},
		{
			name:   "schedule",
			match:  containsAny(scheduleKeywords),
			handle: d.handleSchedule,
		},
		{
			name: "device_control",
			match: func(u string) bool {
				_, ok := actions.MatchDeviceVerb(u)
				return ok
			},
			handle: d.handleDeviceVerb,
		},
		{
			name:   "open_app",
			match:  containsAny([]string{"open"}),
			handle: d.handleOpenApp,
		},
		{
			name:   "close_app",
			match:  containsAny([]string{"close"}),
			handle: d.handleCloseApp,
		},
		{
			name:   "exit",
			match:  containsAny(exitKeywords),
			handle: d.handleExit,
		},
	}
}

func containsAny(keywords []string) func(string) bool {
	return func(u string) bool {
		lowered := strings.ToLower(u)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

// Action handlers absorb their own failures: the error is spoken as a
// notice and the session continues (a nil return in every path).

func (d *Dispatcher) handleOpenSite(ctx context.Context, utterance string) error {
	site, _ := actions.MatchSite(utterance)
	if err := d.cfg.Desktop.OpenSite(ctx, site); err != nil {
		d.logger.Warn("site open failed", "site", site.Key, "err", err)
		d.speak(ctx, "I couldn't open "+site.Key+", sorry.")
		return nil
	}
	if err := d.cfg.Prefs.AddFavoriteWebsite(ctx, site.URL); err != nil {
		d.logger.Warn("preferences write failed", "err", err)
	}
	d.speak(ctx, "Opening "+site.Key+".")
	return nil
}

func (d *Dispatcher) handleSchedule(ctx context.Context, _ string) error {
	d.speak(ctx, actions.ScheduleFor(d.now().Weekday()))
	return nil
}

func (d *Dispatcher) handleDeviceVerb(ctx context.Context, utterance string) error {
	phrase, _ := actions.MatchDeviceVerb(utterance)
	if err := d.cfg.Desktop.DeviceVerb(ctx, phrase); err != nil {
		d.logger.Warn("device action failed", "verb", phrase, "err", err)
		d.speak(ctx, "That didn't work, sorry.")
	}
	return nil
}

func (d *Dispatcher) handleOpenApp(ctx context.Context, utterance string) error {
	app, ok := actions.MatchApp(utterance)
	if !ok {
		d.speak(ctx, "Application not recognized.")
		return nil
	}
	if err := d.cfg.Desktop.OpenApp(ctx, app); err != nil {
		d.logger.Warn("app open failed", "app", app.Key, "err", err)
		d.speak(ctx, "I couldn't open "+app.Key+", sorry.")
		return nil
	}
	if err := d.cfg.Prefs.AddFrequentApp(ctx, app.Key); err != nil {
		d.logger.Warn("preferences write failed", "err", err)
	}
	d.speak(ctx, "Opening "+app.Key+".")
	return nil
}

func (d *Dispatcher) handleCloseApp(ctx context.Context, utterance string) error {
	app, ok := actions.MatchApp(utterance)
	if !ok {
		d.speak(ctx, "Application not recognized.")
		return nil
	}
	if err := d.cfg.Desktop.CloseApp(ctx, app); err != nil {
		d.logger.Warn("app close failed", "app", app.Key, "err", err)
		d.speak(ctx, "I couldn't close "+app.Key+", sorry.")
		return nil
	}
	d.speak(ctx, "Closed "+app.Key+".")
	return nil
}

func (d *Dispatcher) handleExit(ctx context.Context, _ string) error {
	d.speak(ctx, pick(d.rng, farewells))
	d.state = StateExited
	d.logger.Info("session ended by user")
	return nil
}
