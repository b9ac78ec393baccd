package actions

import "strings"

// Site is one entry in the website catalog.
type Site struct {
	// Key is the word matched against the utterance.
	Key string

	// URL is opened in the default browser.
	URL string
}

// App is one entry in the application catalog.
type App struct {
	// Key is the word matched against the utterance.
	Key string

	// OpenArgv launches the application.
	OpenArgv []string

	// Process is the name handed to pkill when closing.
	Process string
}

// sites is checked in order; the first key found in the utterance wins, so
// more specific keys must come before keys they contain.
var sites = []Site{
	{Key: "facebook", URL: "https://www.facebook.com"},
	{Key: "instagram", URL: "https://www.instagram.com"},
	{Key: "whatsapp", URL: "https://web.whatsapp.com"},
	{Key: "discord", URL: "https://discord.com/app"},
	{Key: "chatgpt", URL: "https://chatgpt.com"},
	{Key: "youtube", URL: "https://www.youtube.com"},
}

// apps is checked in order, same first-match rule as sites.
var apps = []App{
	{Key: "notepad", OpenArgv: []string{"gedit"}, Process: "gedit"},
	{Key: "calculator", OpenArgv: []string{"gnome-calculator"}, Process: "gnome-calculator"},
	{Key: "chrome", OpenArgv: []string{"google-chrome"}, Process: "chrome"},
	{Key: "firefox", OpenArgv: []string{"firefox"}, Process: "firefox"},
	{Key: "files", OpenArgv: []string{"nautilus"}, Process: "nautilus"},
	{Key: "terminal", OpenArgv: []string{"gnome-terminal"}, Process: "gnome-terminal"},
	{Key: "code", OpenArgv: []string{"code"}, Process: "code"},
}

// MatchSite returns the first catalog site whose key appears in the
// utterance. Matching is case-insensitive.
func MatchSite(utterance string) (Site, bool) {
	lowered := strings.ToLower(utterance)
	for _, s := range sites {
		if strings.Contains(lowered, s.Key) {
			return s, true
		}
	}
	return Site{}, false
}

// MatchApp returns the first catalog app whose key appears in the
// utterance. Matching is case-insensitive.
func MatchApp(utterance string) (App, bool) {
	lowered := strings.ToLower(utterance)
	for _, a := range apps {
		if strings.Contains(lowered, a.Key) {
			return a, true
		}
	}
	return App{}, false
}

// Sites returns the website catalog in match order.
func Sites() []Site {
	out := make([]Site, len(sites))
	copy(out, sites)
	return out
}

// Apps returns the application catalog in match order.
func Apps() []App {
	out := make([]App, len(apps))
	copy(out, apps)
	return out
}
