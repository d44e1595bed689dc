package osrmtests

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-OSRM/osrm-contract-tests/cache"
	"github.com/Project-OSRM/osrm-contract-tests/client"
	"github.com/Project-OSRM/osrm-contract-tests/fixture"
	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
	"github.com/Project-OSRM/osrm-contract-tests/supervisor"
)

const (
	routedLogPrefix = "[osrm-routed] "
	toolLogPrefix   = "[preprocess] "

	extractMarker  = ".extract"
	contractMarker = ".contract"

	// nilOptionValue in a table cell removes a query option instead of setting it.
	nilOptionValue = "(nil)"
)

// ErrInvalidState means a scenario operation was called before the operations it depends on, or
// after the scenario was closed.
var ErrInvalidState = errors.New("invalid scenario state")

type scenarioState int

const (
	stateUninitialized scenarioState = iota
	statePathsResolved
	stateFixtureWritten
	stateServerRunning
	stateTornDown
)

func (s scenarioState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case statePathsResolved:
		return "paths resolved"
	case stateFixtureWritten:
		return "fixture written"
	case stateServerRunning:
		return "server running"
	case stateTornDown:
		return "torn down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ScenarioContext is the state of one scenario: where its files go, the map it builds, and the
// server that answers its queries. A ScenarioContext is created for each scenario and passed
// explicitly to everything that needs it; nothing about a scenario is kept in global state.
//
// Its lifecycle is Resolve, then any number of map-building calls, then queries, then Close.
// The first query writes the fixture, makes sure the dataset exists, and starts the server.
type ScenarioContext struct {
	harness *TestHarness
	logger  framework.Logger

	state       scenarioState
	featurePath string
	scenarioID  string
	layout      cache.Layout

	profile     string
	grid        fixture.Grid
	fixture     *fixture.MapFixture
	extractArgs []string
	options     servicedef.Params

	server *supervisor.Supervisor
}

// NewScenarioContext creates the context of a scenario that has not yet been resolved. Messages
// about the scenario's progress, including the server's output, go to logger.
func NewScenarioContext(harness *TestHarness, logger framework.Logger) *ScenarioContext {
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &ScenarioContext{
		harness: harness,
		logger:  logger,
		profile: harness.config.Profile,
		grid:    fixture.NewGrid(fixture.DefaultOrigin, fixture.DefaultGridSize),
		fixture: fixture.NewMapFixture(),
		options: harness.config.defaultParams(),
		server: supervisor.New(supervisor.Config{
			ReadyTimeout: harness.config.Timeouts.Ready,
			Logger:       framework.LoggerWithPrefix(logger, routedLogPrefix),
		}),
	}
	harness.register(s)
	return s
}

// Resolve computes the scenario's identifier and cache paths, creates the cache directories, and
// removes cached files that belong to older versions of the feature file or of the build.
func (s *ScenarioContext) Resolve(featurePath string, line int, name string) error {
	if s.state != stateUninitialized {
		return s.stateError("resolve paths")
	}
	layout, err := cache.NewLayout(featurePath, s.harness.dependencyDigest)
	if err != nil {
		return framework.SetupError{Err: fmt.Errorf("resolving cache paths for %s: %w", featurePath, err)}
	}
	removed, err := layout.Prepare()
	for _, path := range removed {
		s.logger.Printf("Removed stale cache entry %s", path)
	}
	if err != nil {
		return framework.SetupError{Err: fmt.Errorf("preparing cache directory %s: %w", layout.DatasetDir(), err)}
	}
	s.featurePath = featurePath
	s.scenarioID = cache.ScenarioID(line, name)
	s.layout = layout
	s.state = statePathsResolved
	s.logger.Printf("Scenario %s, dataset %s", s.scenarioID, s.DatasetPath())
	return nil
}

func (s *ScenarioContext) ScenarioID() string {
	return s.scenarioID
}

func (s *ScenarioContext) FixturePath() string {
	return s.layout.FixtureFile(s.scenarioID)
}

func (s *ScenarioContext) DatasetPath() string {
	return s.layout.DatasetFile(s.scenarioID)
}

func (s *ScenarioContext) Profile() string {
	return s.profile
}

func (s *ScenarioContext) SetProfile(profile string) {
	s.profile = profile
}

// SetGridSize changes the spacing of node maps that are added after it.
func (s *ScenarioContext) SetGridSize(meters float64) {
	s.grid = fixture.NewGrid(s.grid.Origin, meters)
}

// SetOrigin changes the location of the top-left cell of node maps that are added after it.
func (s *ScenarioContext) SetOrigin(origin fixture.Location) {
	s.grid = fixture.NewGrid(origin, s.grid.GridSize)
}

func (s *ScenarioContext) Grid() fixture.Grid {
	return s.grid
}

// SetExtractArgs sets extra arguments for the extraction tool.
func (s *ScenarioContext) SetExtractArgs(args []string) {
	s.extractArgs = args
}

// SetOption sets a query option for every query of the scenario.
func (s *ScenarioContext) SetOption(key, value string) {
	s.options.Set(key, value)
}

func (s *ScenarioContext) Options() servicedef.Params {
	return s.options.Clone()
}

// AddNamedNode adds a node to the map. A duplicate name is a setup error, since the scenario
// itself is malformed.
func (s *ScenarioContext) AddNamedNode(name rune, loc fixture.Location) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := s.fixture.AddNode(name, loc); err != nil {
		return framework.SetupError{Err: err}
	}
	return nil
}

// AddNamedLocation adds a query coordinate that is not part of the map.
func (s *ScenarioContext) AddNamedLocation(name rune, loc fixture.Location) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if err := s.fixture.AddLocation(name, loc); err != nil {
		return framework.SetupError{Err: err}
	}
	return nil
}

// AddPoint adds a node or a location, depending on the class of its name.
func (s *ScenarioContext) AddPoint(name rune, loc fixture.Location) error {
	if fixture.ClassOf(name) == fixture.LocationName {
		return s.AddNamedLocation(name, loc)
	}
	return s.AddNamedNode(name, loc)
}

func (s *ScenarioContext) AddWay(nodes string, tags map[string]string) error {
	if err := s.checkMutable(); err != nil {
		return err
	}
	if _, err := s.fixture.AddWay(nodes, tags); err != nil {
		return framework.SetupError{Err: err}
	}
	return nil
}

// Location looks up a node or a location by name. Asking for a name that the scenario never
// defined is a mistake in the scenario, so it panics.
func (s *ScenarioContext) Location(name rune) fixture.Location {
	if fixture.ClassOf(name) == fixture.LocationName {
		if loc, ok := s.fixture.Location(name); ok {
			return loc
		}
	} else if n, ok := s.fixture.Node(name); ok {
		return n.Location
	}
	panic(fmt.Sprintf("unknown node/location %q", name))
}

// WriteFixtureIfAbsent writes the map fixture to the cache, unless a file written by an earlier
// run of the same scenario is already there.
func (s *ScenarioContext) WriteFixtureIfAbsent() error {
	switch {
	case s.state == stateUninitialized || s.state == stateTornDown:
		return s.stateError("write fixture")
	case s.state >= stateFixtureWritten:
		return nil
	}
	path := s.FixturePath()
	if _, err := os.Stat(path); err == nil {
		s.logger.Printf("Using cached fixture %s", path)
		s.state = stateFixtureWritten
		return nil
	}
	data, err := s.fixture.XML()
	if err != nil {
		return framework.SetupError{Err: fmt.Errorf("serializing fixture: %w", err)}
	}
	if err := writeFileAtomically(path, data); err != nil {
		return framework.SetupError{Err: fmt.Errorf("writing fixture: %w", err)}
	}
	s.logger.Printf("Wrote fixture %s", path)
	s.state = stateFixtureWritten
	return nil
}

// EnsureDatasetReady checks that the preprocessed dataset exists. If preprocessing is enabled,
// a missing dataset is built by running the extraction and contraction tools; otherwise it is a
// setup error that names the missing path.
func (s *ScenarioContext) EnsureDatasetReady(ctx context.Context) error {
	if s.state < stateFixtureWritten || s.state == stateTornDown {
		return s.stateError("prepare dataset")
	}
	dataset := s.DatasetPath()
	config := s.harness.config
	if !config.Preprocess {
		if datasetExists(dataset) {
			return nil
		}
		return framework.SetupError{Err: fmt.Errorf("dataset %s does not exist, and preprocessing is disabled", dataset)}
	}

	toolLogger := framework.LoggerWithPrefix(s.logger, toolLogPrefix)
	input := s.layout.InputFile(s.scenarioID)
	if err := linkOrCopy(s.FixturePath(), input); err != nil {
		return framework.SetupError{Err: fmt.Errorf("staging fixture for preprocessing: %w", err)}
	}
	if !exists(dataset + extractMarker) {
		args := append([]string{"--profile", config.profileScript(s.profile)}, config.ExtractArgs...)
		args = append(append(args, s.extractArgs...), input)
		if err := supervisor.RunTool(ctx, toolLogger, config.binary(ExtractBinary), args...); err != nil {
			return framework.SetupError{Err: err}
		}
		if err := touch(dataset + extractMarker); err != nil {
			return framework.SetupError{Err: err}
		}
	}
	if !exists(dataset + contractMarker) {
		args := append(append([]string(nil), config.ContractArgs...), dataset)
		if err := supervisor.RunTool(ctx, toolLogger, config.binary(ContractBinary), args...); err != nil {
			return framework.SetupError{Err: err}
		}
		if err := touch(dataset + contractMarker); err != nil {
			return framework.SetupError{Err: err}
		}
	}
	return nil
}

// prepare runs every step that has to happen before the first query.
func (s *ScenarioContext) prepare(ctx context.Context) error {
	if s.state == stateServerRunning && s.server.Ready() {
		return nil
	}
	if err := s.WriteFixtureIfAbsent(); err != nil {
		return err
	}
	if err := s.EnsureDatasetReady(ctx); err != nil {
		return err
	}
	if err := s.server.EnsureRunning(ctx, s.harness.RoutedPath(), s.DatasetPath()); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return framework.SetupError{Err: err}
	}
	s.state = stateServerRunning
	return nil
}

// Nearest snaps a location using the scenario's profile and query options. A failure to prepare
// the server is a framework.SetupError; failures of the query itself are the errors of the
// client package.
func (s *ScenarioContext) Nearest(ctx context.Context, loc fixture.Location, flatbuffers bool) (servicedef.NearestResult, error) {
	if err := s.prepare(ctx); err != nil {
		return servicedef.NearestResult{}, err
	}
	return s.harness.client.Nearest(ctx, s.profile, loc, flatbuffers, s.NearestParams(), s.logger)
}

// NearestParams returns the query parameters of a nearest query: the scenario's query options.
func (s *ScenarioContext) NearestParams() servicedef.Params {
	return withoutNilOptions(s.options.Clone())
}

// Route requests a route through the waypoints. params are added to the scenario's route
// defaults and query options.
func (s *ScenarioContext) Route(
	ctx context.Context,
	waypoints []fixture.Location,
	flatbuffers bool,
	params servicedef.Params,
) (servicedef.RouteResult, error) {
	if err := s.prepare(ctx); err != nil {
		return servicedef.RouteResult{}, err
	}
	return s.harness.client.Route(ctx, s.profile, waypoints, flatbuffers, s.RouteParams(params), s.logger)
}

// RouteParams returns the options of a route query: the route defaults, then the scenario's
// query options, then params. A value of "(nil)" removes the option.
func (s *ScenarioContext) RouteParams(params servicedef.Params) servicedef.Params {
	return withoutNilOptions(servicedef.DefaultRouteParams().Merge(s.options).Merge(params))
}

func withoutNilOptions(params servicedef.Params) servicedef.Params {
	for _, k := range params.Keys() {
		if v, _ := params.Get(k); v == nilOptionValue {
			params.Delete(k)
		}
	}
	return params
}

// RouteRequest sends a route query whose path and query string are given verbatim.
func (s *ScenarioContext) RouteRequest(ctx context.Context, request string) (servicedef.RouteResult, error) {
	if err := s.prepare(ctx); err != nil {
		return servicedef.RouteResult{}, err
	}
	if !strings.HasPrefix(request, "/") {
		request = "/" + request
	}
	return s.harness.client.RouteRaw(ctx, request, s.logger)
}

// Client is the client that the scenario's queries go through.
func (s *ScenarioContext) Client() *client.Client {
	return s.harness.client
}

// Close stops the server, if it was started. It is safe to call more than once.
func (s *ScenarioContext) Close() {
	if s.state == stateTornDown {
		return
	}
	s.server.Stop()
	s.harness.unregister(s)
	s.state = stateTornDown
}

func (s *ScenarioContext) checkMutable() error {
	if s.state >= stateFixtureWritten {
		return s.stateError("change the map")
	}
	return nil
}

func (s *ScenarioContext) stateError(operation string) error {
	return fmt.Errorf("%w: cannot %s when %s", ErrInvalidState, operation, s.state)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// datasetExists returns true if the dataset file or any of its companion files exist. Newer
// servers split a dataset into "<name>.osrm.<part>" files and don't write "<name>.osrm" itself.
func datasetExists(dataset string) bool {
	if exists(dataset) {
		return true
	}
	entries, err := os.ReadDir(filepath.Dir(dataset))
	if err != nil {
		return false
	}
	prefix := filepath.Base(dataset) + "."
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) &&
			!strings.HasSuffix(e.Name(), extractMarker) && !strings.HasSuffix(e.Name(), contractMarker) {
			return true
		}
	}
	return false
}

func touch(path string) error {
	return os.WriteFile(path, nil, 0o644)
}

func writeFileAtomically(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func linkOrCopy(from, to string) error {
	if exists(to) {
		return nil
	}
	if err := os.Link(from, to); err == nil {
		return nil
	}
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return writeFileAtomically(to, data)
}
