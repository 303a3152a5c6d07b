package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_Json(t *testing.T) {
	var got Info
	require.NoError(t, json.Unmarshal(GetVersion().Json(), &got))
	assert.Equal(t, Version, got.Version)
	assert.NotEmpty(t, got.GoVersion)
	assert.Contains(t, got.Platform, "/")
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	VersionCmd.SetOut(&out)
	VersionCmd.Run(VersionCmd, nil)
	assert.Contains(t, out.String(), `"version"`)
}
