package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/osrmtests"
)

func TestReadParamsDefaults(t *testing.T) {
	var params commandParams
	require.True(t, params.Read([]string{"osrm-contract-tests"}))

	assert.Equal(t, ".", params.config.Root)
	assert.Equal(t, osrmtests.DefaultPort, params.config.Port)
	assert.Equal(t, []string{filepath.Join(".", "features")}, params.paths)
	assert.False(t, params.config.Preprocess)
}

func TestReadParamsFlagsOverrideConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
root: /srv/osrm
port: 5001
profile: bicycle
preprocess: true
timeouts:
  ready: 1m
default_params:
  overview: "false"
`), 0o644))

	var params commandParams
	require.True(t, params.Read([]string{"osrm-contract-tests", "-config", configFile, "-port", "6000",
		"-run", "car", "features/car/names.feature"}))

	assert.Equal(t, "/srv/osrm", params.config.Root)
	assert.Equal(t, 6000, params.config.Port)
	assert.Equal(t, "bicycle", params.config.Profile)
	assert.True(t, params.config.Preprocess)
	assert.Equal(t, time.Minute, params.config.Timeouts.Ready)
	assert.Equal(t, map[string]string{"overview": "false"}, params.config.Params)
	assert.Equal(t, []string{"features/car/names.feature"}, params.paths)
	assert.Len(t, params.filters.Run, 1)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("prot: 5001\n"), 0o644))
	_, err := loadConfig(configFile)
	assert.Error(t, err)
}

func TestRerunCommand(t *testing.T) {
	results := framework.Results{Failures: []framework.TestResult{
		{TestID: framework.TestID{Path: []string{"features/car/names.feature/Car - Street names"}}},
	}}
	assert.Equal(t,
		`osrm-contract-tests -run '^features/car/names\.feature/Car - Street names$' -debug features/car`,
		rerunCommand([]string{"osrm-contract-tests", "-debug", "features/car"}, results))
}
