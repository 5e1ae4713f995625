package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

func TestBuiltinRegistry(t *testing.T) {
	reg, err := Load("", DefaultCatalog())
	require.NoError(t, err)

	assert.Equal(t, 8, reg.Len())

	desc, ok := reg.Lookup("settings")
	require.True(t, ok)
	assert.Equal(t, "Sys Config", desc.Title)
	assert.Equal(t, 800, desc.DefaultWidth)
	assert.Equal(t, 550, desc.DefaultHeight)
	assert.True(t, desc.Singleton)

	content, ok := reg.Content("finder")
	require.True(t, ok)
	assert.Equal(t, "FileManager", content.Component())
	assert.Equal(t, []string{"storage"}, content.Services())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
	assert.False(t, reg.Has("missing"))
}

func TestListPreservesOrder(t *testing.T) {
	reg, err := NewManager(Builtin(), DefaultCatalog())
	require.NoError(t, err)

	var ids []string
	for _, d := range reg.List() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{
		"nexus_ai", "finder", "browser", "terminal",
		"settings", "media_player", "app_store", "calculator",
	}, ids)

	info := reg.Info()
	require.Len(t, info, 8)
	assert.Equal(t, "NexusAI", info[0].Component)
	assert.Equal(t, []string{"assistant"}, info[0].Services)
}

func TestNewManagerValidation(t *testing.T) {
	valid := types.ApplicationDescriptor{ID: "a", Title: "A", DefaultWidth: 10, DefaultHeight: 10}

	tests := []struct {
		name    string
		descs   []types.ApplicationDescriptor
		wantErr error
	}{
		{
			name:    "missing id",
			descs:   []types.ApplicationDescriptor{{Title: "A", DefaultWidth: 1, DefaultHeight: 1}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "missing title",
			descs:   []types.ApplicationDescriptor{{ID: "a", DefaultWidth: 1, DefaultHeight: 1}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "zero size",
			descs:   []types.ApplicationDescriptor{{ID: "a", Title: "A"}},
			wantErr: ErrInvalidDescriptor,
		},
		{
			name:    "duplicate id",
			descs:   []types.ApplicationDescriptor{valid, valid},
			wantErr: ErrDuplicateApplication,
		},
		{
			name: "unknown content",
			descs: []types.ApplicationDescriptor{
				{ID: "a", Title: "A", DefaultWidth: 1, DefaultHeight: 1, Content: "hologram"},
			},
			wantErr: ErrUnknownContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(tt.descs, DefaultCatalog())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmptyContentDefaultsToPlaceholder(t *testing.T) {
	reg, err := NewManager([]types.ApplicationDescriptor{
		{ID: "a", Title: "A", DefaultWidth: 10, DefaultHeight: 10},
	}, DefaultCatalog())
	require.NoError(t, err)

	content, ok := reg.Content("a")
	require.True(t, ok)
	assert.Equal(t, "Placeholder", content.Component())
}

func TestContentServicesAreCopied(t *testing.T) {
	c := NewContent("X", "storage")
	services := c.Services()
	services[0] = "mutated"
	assert.Equal(t, []string{"storage"}, c.Services())
}

func TestLoadManifestFormats(t *testing.T) {
	files := map[string]string{
		"apps.yaml": `
apps:
  - id: browser
    title: HoloNet
    default_width: 1100
    default_height: 700
    content: browser
  - id: settings
    title: Sys Config
    default_width: 800
    default_height: 550
    singleton: true
    content: system_settings
`,
		"apps.toml": `
[[apps]]
id = "browser"
title = "HoloNet"
default_width = 1100
default_height = 700
content = "browser"

[[apps]]
id = "settings"
title = "Sys Config"
default_width = 800
default_height = 550
singleton = true
content = "system_settings"
`,
		"apps.json": `{"apps": [
  {"id": "browser", "title": "HoloNet", "default_width": 1100, "default_height": 700, "content": "browser"},
  {"id": "settings", "title": "Sys Config", "default_width": 800, "default_height": 550, "singleton": true, "content": "system_settings"}
]}`,
	}

	dir := t.TempDir()
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			reg, err := Load(path, DefaultCatalog())
			require.NoError(t, err)
			require.Equal(t, 2, reg.Len())

			browser, _ := reg.Lookup("browser")
			settings, _ := reg.Lookup("settings")
			assert.False(t, browser.Singleton)
			assert.True(t, settings.Singleton)
			assert.Equal(t, 1100, browser.DefaultWidth)
		})
	}
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "apps.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))
	_, err = LoadManifest(path)
	assert.ErrorIs(t, err, ErrUnsupportedManifest)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{apps: ["), 0o644))
	_, err = LoadManifest(broken)
	assert.Error(t, err)
}
