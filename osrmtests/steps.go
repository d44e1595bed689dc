package osrmtests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Project-OSRM/osrm-contract-tests/client"
	"github.com/Project-OSRM/osrm-contract-tests/expect"
	"github.com/Project-OSRM/osrm-contract-tests/fixture"
	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
)

const (
	// nearestEpsilon is how far, in degrees, a snapped location may be from the expected node.
	nearestEpsilon = 1e-5

	paramColumnPrefix = "param:"
)

// scenarioSteps connects the step definitions of one scenario to its ScenarioContext and to the
// framework.Context that records its result.
type scenarioSteps struct {
	harness *TestHarness
	root    *framework.Context
	lines   *scenarioLines
	// mirror, if not nil, also receives each scenario's debug output as it is written.
	mirror framework.Logger

	t        *framework.Context
	scenario *ScenarioContext
	beginErr error
}

func scenarioInitializer(
	harness *TestHarness,
	root *framework.Context,
	lines *scenarioLines,
	mirror framework.Logger,
) func(*godog.ScenarioContext) {
	return func(sc *godog.ScenarioContext) {
		s := &scenarioSteps{harness: harness, root: root, lines: lines, mirror: mirror}
		sc.Before(s.begin)
		sc.After(s.end)

		sc.Step(`^the profile "([^"]*)"$`, s.theProfile)
		sc.Step(`^a grid size of ([-+]?[\d.]+) meters$`, s.aGridSize)
		sc.Step(`^the origin ([-+]?[\d.]+),([-+]?[\d.]+)$`, s.theOrigin)
		sc.Step(`^the node map$`, s.theNodeMap)
		sc.Step(`^the node locations$`, s.theNodeLocations)
		sc.Step(`^the ways$`, s.theWays)
		sc.Step(`^the extract extra arguments "([^"]*)"$`, s.theExtractArguments)
		sc.Step(`^the query options$`, s.theQueryOptions)
		sc.Step(`^I request nearest( with flatbuffers)? I should get$`, s.requestNearest)
		sc.Step(`^I route( with flatbuffers)? I should get$`, s.requestRoute)
	}
}

func testName(uri, name string) string {
	return uri + "/" + name
}

func (s *scenarioSteps) begin(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	line := s.lines.Line(sc.Uri, sc.Name)
	s.t = s.root.Begin(testName(sc.Uri, sc.Name))
	s.scenario = NewScenarioContext(s.harness, s.debugLogger(sc.Name))
	s.t.Defer(s.scenario.Close)
	err := s.t.Do(func() {
		s.must(s.scenario.Resolve(sc.Uri, line, sc.Name))
	})
	if err != nil && !errors.Is(err, framework.ErrSkipped) {
		s.beginErr = err
	}
	return ctx, nil
}

func (s *scenarioSteps) end(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
	if s.t == nil {
		return ctx, nil
	}
	if err != nil && !s.t.Failed() && !errors.Is(err, godog.ErrSkip) && !errors.Is(err, framework.ErrSkipped) {
		// the runner itself failed the scenario, for instance because of an undefined step
		s.t.Errorf("%s", err)
	}
	s.t.End()
	s.t = nil
	return ctx, nil
}

func (s *scenarioSteps) debugLogger(name string) framework.Logger {
	if s.mirror == nil {
		return s.t.DebugLogger()
	}
	return framework.TeeLogger(s.t.DebugLogger(), framework.LoggerWithPrefix(s.mirror, "["+name+"] "))
}

// do runs one step's body in the scenario's test context.
func (s *scenarioSteps) do(action func()) error {
	if s.beginErr != nil {
		err := s.beginErr
		s.beginErr = nil
		return err
	}
	err := s.t.Do(action)
	if errors.Is(err, framework.ErrSkipped) {
		return godog.ErrSkip
	}
	return err
}

// must stops the scenario if err is not nil. A setup error also stops the rest of the run.
func (s *scenarioSteps) must(err error) {
	if err == nil {
		return
	}
	if framework.IsSetupError(err) {
		s.t.Abort(err)
	}
	require.NoError(s.t, err)
}

func (s *scenarioSteps) theProfile(profile string) error {
	return s.do(func() {
		s.scenario.SetProfile(profile)
	})
}

func (s *scenarioSteps) aGridSize(meters string) error {
	return s.do(func() {
		size, err := strconv.ParseFloat(meters, 64)
		require.NoError(s.t, err)
		require.Greater(s.t, size, 0.0, "grid size must be positive")
		s.scenario.SetGridSize(size)
	})
}

func (s *scenarioSteps) theOrigin(lon, lat string) error {
	return s.do(func() {
		origin, err := parseLocation(lat, lon)
		require.NoError(s.t, err)
		s.scenario.SetOrigin(origin)
	})
}

func (s *scenarioSteps) theNodeMap(doc *godog.DocString) error {
	return s.do(func() {
		for _, cell := range s.scenario.Grid().ParseNodeMap(doc.Content) {
			s.must(s.scenario.AddPoint(cell.Name, cell.Location))
		}
	})
}

func (s *scenarioSteps) theNodeLocations(table *godog.Table) error {
	return s.do(func() {
		header, rows, err := parseTable(table)
		s.must(setupErr(err))
		s.must(setupErr(requireColumns(header, "node", "lat", "lon")))
		for _, row := range rows {
			name, err := fixture.ParseName(row.get("node"))
			s.must(setupErr(err))
			loc, err := parseLocation(row.get("lat"), row.get("lon"))
			s.must(setupErr(err))
			s.must(s.scenario.AddPoint(name, loc))
		}
	})
}

func (s *scenarioSteps) theWays(table *godog.Table) error {
	return s.do(func() {
		header, rows, err := parseTable(table)
		s.must(setupErr(err))
		s.must(setupErr(requireColumns(header, "nodes")))
		for _, row := range rows {
			tags := make(map[string]string)
			for _, column := range header {
				if column == "nodes" || column == commentColumn || row.get(column) == "" {
					continue
				}
				tags[column] = row.get(column)
			}
			s.must(s.scenario.AddWay(row.get("nodes"), tags))
		}
	})
}

func (s *scenarioSteps) theExtractArguments(args string) error {
	return s.do(func() {
		s.scenario.SetExtractArgs(strings.Fields(args))
	})
}

// theQueryOptions reads a two-column table of option names and values, without a header.
func (s *scenarioSteps) theQueryOptions(table *godog.Table) error {
	return s.do(func() {
		for i, row := range table.Rows {
			if len(row.Cells) != 2 {
				s.must(framework.SetupError{Err: fmt.Errorf("query option row %d must have two cells", i+1)})
			}
			s.scenario.SetOption(strings.TrimSpace(row.Cells[0].Value), strings.TrimSpace(row.Cells[1].Value))
		}
	})
}

func (s *scenarioSteps) requestNearest(ctx context.Context, withFlatbuffers string, table *godog.Table) error {
	return s.do(func() {
		header, rows, err := parseTable(table)
		s.must(setupErr(err))
		s.must(setupErr(requireColumns(header, "in")))
		for _, column := range header {
			switch column {
			case "in", "out", "data_version", commentColumn:
			default:
				require.Fail(s.t, fmt.Sprintf("unsupported nearest column %q", column))
			}
		}
		flatbuffers := withFlatbuffers != ""
		for _, row := range rows {
			s.nearestRow(ctx, row, flatbuffers)
		}
	})
}

func (s *scenarioSteps) nearestRow(ctx context.Context, row tableRow, flatbuffers bool) {
	in := s.point(row.get("in"))
	result, err := s.scenario.Nearest(ctx, in, flatbuffers)
	if _, ok := client.AsQueryFailure(err); ok {
		assert.NoError(s.t, err, "%s", row)
		return
	}
	s.must(err)

	if out := row.get("out"); out != "" {
		want := s.point(out)
		if assert.NotEmpty(s.t, result.Waypoints, "%s: no waypoint in response", row) {
			got := result.Waypoints[0].Location.Location()
			assert.True(s.t, got.ApproxEqual(want, nearestEpsilon),
				"%s: expected %s to snap to %s %s, got %s", row, row.get("in"), out, want, got)
		}
	}
	if row.has("data_version") {
		assert.NoError(s.t, expect.CheckDataVersion(row.get("data_version"), result.DataVersion), "%s", row)
	}
}

// routeColumns sorts the columns of a route table into query inputs and assertions.
type routeColumns struct {
	params []string
	kinds  []expect.Kind
	names  []string
}

func (s *scenarioSteps) routeColumns(header []string) routeColumns {
	var rc routeColumns
	for _, column := range header {
		switch {
		case column == "from", column == "to", column == "waypoints", column == "request",
			column == "bearings", column == "status", column == "message", column == commentColumn:
		case strings.HasPrefix(column, paramColumnPrefix):
			rc.params = append(rc.params, column)
		default:
			kind, err := expect.ParseKind(column)
			require.NoError(s.t, err)
			rc.kinds = append(rc.kinds, kind)
			rc.names = append(rc.names, column)
		}
	}
	return rc
}

func (s *scenarioSteps) requestRoute(ctx context.Context, withFlatbuffers string, table *godog.Table) error {
	return s.do(func() {
		header, rows, err := parseTable(table)
		s.must(setupErr(err))
		columns := s.routeColumns(header)
		flatbuffers := withFlatbuffers != ""
		for _, row := range rows {
			s.routeRow(ctx, row, columns, flatbuffers)
		}
	})
}

func (s *scenarioSteps) routeRow(ctx context.Context, row tableRow, columns routeColumns, flatbuffers bool) {
	var params servicedef.Params
	for _, column := range columns.params {
		if v := row.get(column); v != "" {
			params.Set(strings.TrimPrefix(column, paramColumnPrefix), v)
		}
	}

	var result servicedef.RouteResult
	var err error
	if request := row.get("request"); request != "" {
		result, err = s.scenario.RouteRequest(ctx, request)
	} else {
		waypoints := s.waypoints(row)
		if bearings := row.get("bearings"); bearings != "" {
			values := strings.Fields(bearings)
			require.Len(s.t, values, len(waypoints), "%s: need one bearing per waypoint", row)
			params.Set("bearings", servicedef.FormatBearings(values))
		}
		result, err = s.scenario.Route(ctx, waypoints, flatbuffers, params)
	}

	status, message := http.StatusOK, ""
	var route *servicedef.RouteResult
	if qf, ok := client.AsQueryFailure(err); ok {
		status, message = qf.Status, qf.Result.Message
	} else {
		s.must(err)
		route = &result
	}
	s.t.Debug("%s: HTTP %d", row, status)

	if want := row.get("status"); want != "" {
		assert.Equal(s.t, want, strconv.Itoa(status), "%s: status", row)
	}
	if row.has("message") {
		assert.Equal(s.t, row.get("message"), message, "%s: message", row)
	}
	for i, kind := range columns.kinds {
		assert.NoError(s.t, expect.Check(kind, row.get(columns.names[i]), route), "%s", row)
	}
}

func (s *scenarioSteps) waypoints(row tableRow) []fixture.Location {
	var names []string
	if w := row.get("waypoints"); w != "" {
		names = strings.Split(w, ",")
	} else {
		require.True(s.t, row.get("from") != "" && row.get("to") != "",
			"%s: needs a request, waypoints, or from and to", row)
		names = []string{row.get("from"), row.get("to")}
	}
	ret := make([]fixture.Location, 0, len(names))
	for _, name := range names {
		ret = append(ret, s.point(name))
	}
	return ret
}

func (s *scenarioSteps) point(name string) fixture.Location {
	r, err := fixture.ParseName(name)
	require.NoError(s.t, err)
	return s.scenario.Location(r)
}

func parseLocation(lat, lon string) (fixture.Location, error) {
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return fixture.Location{}, fmt.Errorf("invalid latitude %q", lat)
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return fixture.Location{}, fmt.Errorf("invalid longitude %q", lon)
	}
	return fixture.Location{Latitude: latitude, Longitude: longitude}, nil
}

// setupErr marks a malformed scenario table as a setup error.
func setupErr(err error) error {
	if err == nil {
		return nil
	}
	return framework.SetupError{Err: err}
}
