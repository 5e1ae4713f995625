package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidSetting means an update carried an out-of-range value
var ErrInvalidSetting = errors.New("invalid setting")

// SystemConfig is the state edited by the settings window
type SystemConfig struct {
	WiFi        bool   `json:"wifi" toml:"wifi"`
	Bluetooth   bool   `json:"bluetooth" toml:"bluetooth"`
	DisplayRes  int    `json:"display_res" toml:"display_res"`
	Volume      int    `json:"volume" toml:"volume"`
	IsMuted     bool   `json:"is_muted" toml:"is_muted"`
	Security    bool   `json:"security" toml:"security"`
	Performance int    `json:"performance" toml:"performance"`
	Language    int    `json:"language" toml:"language"`
	Theme       int    `json:"theme" toml:"theme"`
	Account     string `json:"account" toml:"account"`
}

// Defaults returns the factory settings
func Defaults() SystemConfig {
	return SystemConfig{
		WiFi:        true,
		Bluetooth:   true,
		DisplayRes:  0,
		Volume:      85,
		IsMuted:     false,
		Security:    true,
		Performance: 1,
		Language:    0,
		Theme:       0,
		Account:     "Administrator",
	}
}

// Patch is a partial update; nil fields are left alone
type Patch struct {
	WiFi        *bool   `json:"wifi,omitempty"`
	Bluetooth   *bool   `json:"bluetooth,omitempty"`
	DisplayRes  *int    `json:"display_res,omitempty"`
	Volume      *int    `json:"volume,omitempty"`
	IsMuted     *bool   `json:"is_muted,omitempty"`
	Security    *bool   `json:"security,omitempty"`
	Performance *int    `json:"performance,omitempty"`
	Language    *int    `json:"language,omitempty"`
	Theme       *int    `json:"theme,omitempty"`
	Account     *string `json:"account,omitempty"`
}

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

// ParsePatch decodes a partial update from loosely typed parameters.
// Unknown keys are rejected.
func ParsePatch(params map[string]interface{}) (Patch, error) {
	var p Patch
	data, err := sonic.Marshal(params)
	if err != nil {
		return p, err
	}
	if err := strictJSON.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return p, nil
}

// Apply returns c with the patch merged in
func (c SystemConfig) Apply(p Patch) SystemConfig {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	set(&c.WiFi, p.WiFi)
	set(&c.Bluetooth, p.Bluetooth)
	setInt(&c.DisplayRes, p.DisplayRes)
	setInt(&c.Volume, p.Volume)
	set(&c.IsMuted, p.IsMuted)
	set(&c.Security, p.Security)
	setInt(&c.Performance, p.Performance)
	setInt(&c.Language, p.Language)
	setInt(&c.Theme, p.Theme)
	if p.Account != nil {
		c.Account = *p.Account
	}
	return c
}

// Validate checks value ranges
func (c SystemConfig) Validate() error {
	switch {
	case c.Volume < 0 || c.Volume > 100:
		return fmt.Errorf("%w: volume %d", ErrInvalidSetting, c.Volume)
	case c.DisplayRes < 0, c.Performance < 0, c.Language < 0, c.Theme < 0:
		return fmt.Errorf("%w: negative option index", ErrInvalidSetting)
	case c.Account == "":
		return fmt.Errorf("%w: empty account", ErrInvalidSetting)
	}
	return nil
}

// Store holds the current settings and writes them as TOML when a path
// is configured
type Store struct {
	mu   sync.RWMutex
	cfg  SystemConfig
	path string
}

// Open loads settings from path, falling back to defaults when the file
// does not exist. An empty path keeps settings in memory.
func Open(path string) (*Store, error) {
	s := &Store{cfg: Defaults(), path: path}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, err
	}

	// Keys missing from the file keep their defaults
	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s.cfg = cfg
	return s, nil
}

// Get returns the current settings
func (s *Store) Get() SystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update merges a partial update and persists the result
func (s *Store) Update(p Patch) (SystemConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Apply(p)
	if err := next.Validate(); err != nil {
		return s.cfg, err
	}
	if err := s.write(next); err != nil {
		return s.cfg, err
	}
	s.cfg = next
	return next, nil
}

// Reset restores factory settings
func (s *Store) Reset() (SystemConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := Defaults()
	if err := s.write(def); err != nil {
		return s.cfg, err
	}
	s.cfg = def
	return def, nil
}

func (s *Store) write(cfg SystemConfig) error {
	if s.path == "" {
		return nil
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
