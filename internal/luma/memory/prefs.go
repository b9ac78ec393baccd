package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/velmoor/luma/internal/luma/store"
)

// Preferences is the user-preferences document: remembered websites, apps,
// and daily routines the assistant can fold into its behaviour.
type Preferences struct {
	FavoriteWebsites []string          `json:"favorite_websites"`
	DailyRoutines    map[string]string `json:"daily_routines"`
	FrequentApps     []string          `json:"frequently_used_apps"`
}

// PrefsStore persists Preferences as a whole document. Safe for concurrent use.
type PrefsStore struct {
	mu   sync.Mutex
	docs *store.Documents
}

// NewPrefsStore creates a PrefsStore persisting through docs.
func NewPrefsStore(docs *store.Documents) *PrefsStore {
	return &PrefsStore{docs: docs}
}

// Load returns the stored preferences, or an initialized empty document
// when none has been saved yet.
func (p *PrefsStore) Load(ctx context.Context) (Preferences, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load(ctx)
}

// AddFavoriteWebsite records url unless it is already present.
func (p *PrefsStore) AddFavoriteWebsite(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefs, err := p.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range prefs.FavoriteWebsites {
		if existing == url {
			return nil
		}
	}
	prefs.FavoriteWebsites = append(prefs.FavoriteWebsites, url)
	return p.save(ctx, prefs)
}

// AddFrequentApp records appName unless it is already present
// (case-insensitive comparison).
func (p *PrefsStore) AddFrequentApp(ctx context.Context, appName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefs, err := p.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range prefs.FrequentApps {
		if strings.EqualFold(existing, appName) {
			return nil
		}
	}
	prefs.FrequentApps = append(prefs.FrequentApps, appName)
	return p.save(ctx, prefs)
}

// SetDailyRoutine records the activity for a time of day (morning,
// afternoon, evening), overwriting any previous entry.
func (p *PrefsStore) SetDailyRoutine(ctx context.Context, timeOfDay, activity string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefs, err := p.load(ctx)
	if err != nil {
		return err
	}
	prefs.DailyRoutines[strings.ToLower(timeOfDay)] = activity
	return p.save(ctx, prefs)
}

// load must be called with mu held. Slices and the routines map are always
// non-nil so the persisted document satisfies its schema.
func (p *PrefsStore) load(ctx context.Context) (Preferences, error) {
	prefs := Preferences{
		FavoriteWebsites: []string{},
		DailyRoutines:    map[string]string{},
		FrequentApps:     []string{},
	}
	err := p.docs.Load(ctx, store.DocUserPrefs, &prefs)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Preferences{}, fmt.Errorf("memory: load preferences: %w", err)
	}
	if prefs.FavoriteWebsites == nil {
		prefs.FavoriteWebsites = []string{}
	}
	if prefs.DailyRoutines == nil {
		prefs.DailyRoutines = map[string]string{}
	}
	if prefs.FrequentApps == nil {
		prefs.FrequentApps = []string{}
	}
	return prefs, nil
}

// save must be called with mu held.
func (p *PrefsStore) save(ctx context.Context, prefs Preferences) error {
	if err := p.docs.Save(ctx, store.DocUserPrefs, prefs); err != nil {
		return fmt.Errorf("memory: persist preferences: %w", err)
	}
	return nil
}
