package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"apps"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "nexus_ai")
	assert.Contains(t, out.String(), "1100x700")
	assert.Contains(t, out.String(), "Placeholder")
}

func TestAppsCommandBadManifest(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"apps", "--manifest", "apps.ini"})

	assert.Error(t, cmd.Execute())
}
