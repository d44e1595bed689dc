package osrmtests

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
)

const routingFeature = `Feature: Testbot routing

    Background:
        Given the profile "testbot"
        And a grid size of 100 meters

    Scenario: Testbot - Route between two nodes
        Given the node map
            """
            a b
            """

        And the ways
            | nodes | highway |
            | ab    | primary |

        When I route I should get
            | from | to | route | turns         | distance  | time | status | #    |
            | a    | b  | ab,ab | depart,arrive | 100m +- 1 | 10s  | 200    | fine |

    Scenario: Testbot - Wrong distance
        Given the node map
            """
            a b
            """

        And the ways
            | nodes |
            | ab    |

        When I route I should get
            | from | to | route | distance |
            | a    | b  | ab,ab | 300m     |

    Scenario: Testbot - Nearest
        Given the node locations
            | node | lat | lon   |
            | a    | 1   | 1     |
            | b    | 1   | 1.001 |

        And the ways
            | nodes |
            | ab    |

        When I request nearest I should get
            | in | out | data_version |
            | a  | a   | 2024-01-01   |
`

const brokenFeature = `Feature: Broken

    Scenario: Duplicate
        Given the node map
            """
            a a
            """

    Scenario: After
        Given the profile "testbot"
`

const wrongNearestFeature = `Feature: Testbot nearest

    Scenario: Testbot - Wrong nearest
        Given the node locations
            | node | lat | lon   |
            | a    | 1   | 1     |
            | b    | 1   | 1.001 |

        And the ways
            | nodes |
            | ab    |

        When I request nearest I should get
            | in | out |
            | a  | a   |
            | b  | b   |
`

func routingHandler() http.Handler {
	route := httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(routeResponse))
	nearest := httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(nearestResponse))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/nearest/") {
			nearest.ServeHTTP(w, r)
			return
		}
		route.ServeHTTP(w, r)
	})
}

func runFeature(t *testing.T, feature string, filter framework.Filter) (framework.Results, int, string) {
	t.Helper()
	return runFeatureWithOptions(t, feature, SuiteOptions{Filter: filter})
}

func runFeatureWithOptions(t *testing.T, feature string, options SuiteOptions) (framework.Results, int, string) {
	t.Helper()
	var results framework.Results
	var status int
	var root string
	httphelpers.WithServer(routingHandler(), func(server *httptest.Server) {
		var featureFile string
		root, featureFile = makeProject(t, feature)
		config := configFor(t, root, server)
		config.Preprocess = true
		options.Paths = []string{featureFile}
		results, status = RunTestSuite(newHarness(t, config), options)
	})
	return results, status, root
}

func failureNames(results framework.Results) []string {
	var names []string
	for _, f := range results.Failures {
		names = append(names, f.TestID.String())
	}
	return names
}

func TestRunTestSuite(t *testing.T) {
	results, status, root := runFeature(t, routingFeature, nil)

	assert.Len(t, results.Tests, 3)
	require.Len(t, results.Failures, 1, "failures: %v", failureNames(results))
	assert.True(t, strings.HasSuffix(results.Failures[0].TestID.String(), "/Testbot - Wrong distance"))
	require.NotEmpty(t, results.Failures[0].Errors)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "distance: expected")
	assert.NotEqual(t, 0, status)

	// every scenario got its own fixture, named after its line
	fixtures, err := filepath.Glob(filepath.Join(root, "test", "cache", "testbot", "basic.feature", "*", "*.osm"))
	require.NoError(t, err)
	var names []string
	for _, f := range fixtures {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{
		"8_testbot_route_between_two_nodes.osm",
		"22_testbot_wrong_distance.osm",
		"36_testbot_nearest.osm",
	}, names)
}

func TestRunTestSuiteWithFilter(t *testing.T) {
	filters := framework.ScenarioFilters{}
	require.NoError(t, filters.Skip.Set("Wrong distance"))
	results, _, _ := runFeature(t, routingFeature, filters.AsFilter)

	assert.Len(t, results.Tests, 3)
	assert.True(t, results.OK(), "failures: %v", failureNames(results))
	assert.Equal(t, 1, results.Skipped())
}

func TestSetupErrorAbortsRun(t *testing.T) {
	results, status, root := runFeature(t, brokenFeature, nil)

	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.True(t, strings.HasSuffix(results.Failures[0].TestID.String(), "/Duplicate"))
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "duplicate node")
	assert.True(t, results.Tests[1].Skipped)
	assert.NotEqual(t, 0, status)

	_, err := os.Stat(filepath.Join(root, "tools.log"))
	assert.True(t, os.IsNotExist(err), "no dataset should be built for a broken scenario")
}

func TestNearestToWrongNodeFailsScenario(t *testing.T) {
	results, status, _ := runFeature(t, wrongNearestFeature, nil)

	require.Len(t, results.Tests, 1)
	require.Len(t, results.Failures, 1)
	assert.NotEqual(t, 0, status)
	errs := results.Failures[0].Errors
	require.Len(t, errs, 1, "only the row for b is wrong")
	assert.Contains(t, errs[0].Error(), "row 2: expected b to snap to b")
}

func TestDebugLoggerReceivesScenarioOutput(t *testing.T) {
	mirror := &framework.CapturingLogger{}
	results, _, _ := runFeatureWithOptions(t, wrongNearestFeature, SuiteOptions{DebugLogger: mirror})
	require.Len(t, results.Tests, 1)

	var lines []string
	for _, m := range mirror.Output() {
		lines = append(lines, m.Message)
	}
	assert.Contains(t, strings.Join(lines, "\n"), "[Testbot - Wrong nearest] [osrm-routed] starting")
}
