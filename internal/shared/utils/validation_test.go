package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		required bool
		wantErr  bool
	}{
		{"window id", "win_01HZX3K4M5N6P7Q8R9S0T1V2W3", true, false},
		{"app id", "media_player", true, false},
		{"empty optional", "", false, false},
		{"empty required", "", true, true},
		{"path traversal", "../etc", true, true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true, true},
		{"null byte", "win\x00", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "window_id", tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToolID(t *testing.T) {
	assert.NoError(t, ValidateToolID("storage.create_folder", "tool_id", true))
	assert.Error(t, ValidateToolID("storage/list", "tool_id", true))
	assert.Error(t, ValidateToolID("", "tool_id", true))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("", false))
	assert.NoError(t, ValidateCategory("storage", false))
	assert.Error(t, ValidateCategory("Storage", false))
}

func TestValidateParams(t *testing.T) {
	assert.NoError(t, ValidateParams(map[string]interface{}{
		"path": []interface{}{"sector_7"},
		"name": "notes.txt",
	}))

	big := map[string]interface{}{"content": strings.Repeat("x", MaxParamsSize)}
	assert.Error(t, ValidateParams(big))

	var nested interface{} = "leaf"
	for i := 0; i < MaxParamDepth+2; i++ {
		nested = map[string]interface{}{"n": nested}
	}
	assert.Error(t, ValidateParams(map[string]interface{}{"root": nested}))
}
