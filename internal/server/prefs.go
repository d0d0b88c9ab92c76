package server

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"BotShooter/internal/game"
	"BotShooter/internal/scores"
)

const prefsObject = "profiles"

// Preferences is what a player keeps between sessions.
type Preferences struct {
	Initials   string `yaml:"initials"`
	SFXMuted   bool   `yaml:"sfxMuted"`
	MusicMuted bool   `yaml:"musicMuted"`
}

func DefaultPreferences() Preferences {
	return Preferences{Initials: scores.DefaultInitials}
}

// Context converts stored preferences into the per-session context.
func (p Preferences) Context() game.SessionContext {
	return game.SessionContext{
		SFXEnabled:   !p.SFXMuted,
		MusicEnabled: !p.MusicMuted,
		DisplayName:  scores.NormalizeInitials(p.Initials),
	}
}

// PrefsStore persists Preferences per profile. A nil manager keeps
// everything in memory.
type PrefsStore struct {
	manager *gdata.Manager
	mu      sync.Mutex
	mem     map[string]Preferences
}

func NewPrefsStore(manager *gdata.Manager) *PrefsStore {
	return &PrefsStore{manager: manager, mem: map[string]Preferences{}}
}

// OpenPrefsStore opens gdata storage for appName. Failure is logged and
// the store falls back to memory.
func OpenPrefsStore(appName string) *PrefsStore {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("prefs: %v (preferences kept in memory)", err)
		manager = nil
	}
	return NewPrefsStore(manager)
}

// profileKey maps a client supplied profile name to a storage key.
func profileKey(profile string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(profile)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= 32 {
			break
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

func (s *PrefsStore) Load(profile string) (Preferences, error) {
	key := profileKey(profile)
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.mem[key]; ok {
		return p, nil
	}
	prefs := DefaultPreferences()
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, key) {
		return prefs, nil
	}
	data, err := s.manager.LoadObjectProp(prefsObject, key)
	if err != nil {
		return prefs, fmt.Errorf("load prefs %q: %w", key, err)
	}
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return DefaultPreferences(), fmt.Errorf("decode prefs %q: %w", key, err)
	}
	s.mem[key] = prefs
	return prefs, nil
}

func (s *PrefsStore) Save(profile string, prefs Preferences) error {
	key := profileKey(profile)
	prefs.Initials = scores.NormalizeInitials(prefs.Initials)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[key] = prefs
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode prefs %q: %w", key, err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, key, data); err != nil {
		return fmt.Errorf("save prefs %q: %w", key, err)
	}
	return nil
}
