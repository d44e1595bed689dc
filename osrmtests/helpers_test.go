package osrmtests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fakeRouted = `echo "[info] loading $1"
echo "[info] running and waiting for requests"
exec sleep 60`

// fakeTool appends its name and arguments to a log next to the build directory.
const fakeTool = `echo "$(basename "$0") $*" >> "$(dirname "$0")/../tools.log"`

const nearestResponse = `{"code":"Ok","data_version":"2024-01-01",
"waypoints":[{"hint":"h","distance":0.5,"name":"ab","location":[1.0,1.0]}]}`

const routeResponse = `{"code":"Ok","waypoints":[
  {"hint":"","distance":0,"name":"ab","location":[1.0,1.0]},
  {"hint":"","distance":0,"name":"ab","location":[1.0009,1.0]}],
 "routes":[{"geometry":"_ibE_ibE?_@","weight":10,"duration":10,"distance":100,"weight_name":"duration",
  "legs":[{"summary":"ab","weight":10,"duration":10,"distance":100,"steps":[
   {"geometry":"_ibE_ibE?_@","mode":"driving","name":"ab","weight":10,"duration":10,"distance":100,
    "driving_side":"right","intersections":[],
    "maneuver":{"bearing_before":0,"bearing_after":90,"location":[1.0,1.0],"type":"depart"}},
   {"geometry":"_ibE_pbE??","mode":"driving","name":"ab","weight":0,"duration":0,"distance":0,
    "driving_side":"right","intersections":[],
    "maneuver":{"bearing_before":90,"bearing_after":0,"location":[1.0009,1.0],"type":"arrive"}}]}]}]}`

func jsonHeaders() http.Header {
	return http.Header{"Content-Type": []string{"application/json; charset=UTF-8"}}
}

func writeTestFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

// makeProject creates a project directory with a fake build, one profile, and the feature file,
// and returns the project root and the feature file's path.
func makeProject(t *testing.T, feature string) (string, string) {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "build", RoutedBinary), "#!/bin/sh\n"+fakeRouted+"\n", 0o755)
	writeTestFile(t, filepath.Join(root, "build", ExtractBinary), "#!/bin/sh\n"+fakeTool+"\n", 0o755)
	writeTestFile(t, filepath.Join(root, "build", ContractBinary), "#!/bin/sh\n"+fakeTool+"\n", 0o755)
	writeTestFile(t, filepath.Join(root, "profiles", "testbot.lua"), "-- testbot\n", 0o644)
	featureFile := filepath.Join(root, "features", "testbot", "basic.feature")
	writeTestFile(t, featureFile, feature, 0o644)
	return root, featureFile
}

// configFor points a configuration at a test server.
func configFor(t *testing.T, root string, server *httptest.Server) Config {
	t.Helper()
	config := Config{
		Root:     root,
		Profile:  "testbot",
		Timeouts: Timeouts{Connect: time.Second, Read: time.Second, Ready: 10 * time.Second},
	}
	if server != nil {
		u, err := url.Parse(server.URL)
		require.NoError(t, err)
		port, err := strconv.Atoi(u.Port())
		require.NoError(t, err)
		config.Host, config.Port = u.Hostname(), port
	}
	return config
}

func newHarness(t *testing.T, config Config) *TestHarness {
	t.Helper()
	h, err := NewTestHarness(config, nil)
	require.NoError(t, err)
	return h
}

func readToolLog(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "tools.log"))
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}
