package osrmtests

import (
	"fmt"
	"os"
	"sync"

	"github.com/Project-OSRM/osrm-contract-tests/cache"
	"github.com/Project-OSRM/osrm-contract-tests/client"
	"github.com/Project-OSRM/osrm-contract-tests/framework"
)

// TestHarness holds what all scenarios of a run share: the configuration, the digest of the build
// under test, and the HTTP client.
type TestHarness struct {
	config           Config
	dependencyDigest cache.Digest
	client           *client.Client
	logger           framework.Logger

	lock   sync.Mutex
	active map[*ScenarioContext]struct{}
}

// NewTestHarness checks that the build under test is usable and computes its digest. Any error is
// a framework.SetupError, since no scenario could run without these.
func NewTestHarness(config Config, logger framework.Logger) (*TestHarness, error) {
	config = config.WithDefaults()
	if logger == nil {
		logger = framework.NullLogger()
	}

	routed := config.binary(RoutedBinary)
	if info, err := os.Stat(routed); err != nil {
		return nil, framework.SetupError{Err: fmt.Errorf("server binary not found: %w", err)}
	} else if info.IsDir() || info.Mode()&0o111 == 0 {
		return nil, framework.SetupError{Err: fmt.Errorf("server binary %s is not executable", routed)}
	}

	digest, err := cache.DigestOfDependencySet(config.BuildDir, config.ProfilesDir)
	if err != nil {
		return nil, framework.SetupError{Err: fmt.Errorf("computing digest of the build: %w", err)}
	}
	logger.Printf("Build digest is %s (from %s and %s)", digest, config.BuildDir, config.ProfilesDir)

	return &TestHarness{
		config:           config,
		dependencyDigest: digest,
		client: client.New(config.Host, config.Port, client.Timeouts{
			Connect: config.Timeouts.Connect,
			Read:    config.Timeouts.Read,
		}),
		logger: logger,
		active: make(map[*ScenarioContext]struct{}),
	}, nil
}

func (h *TestHarness) Config() Config {
	return h.config
}

// DependencyDigest is the digest of the preprocessing binaries and profiles, computed once per run.
func (h *TestHarness) DependencyDigest() cache.Digest {
	return h.dependencyDigest
}

func (h *TestHarness) Client() *client.Client {
	return h.client
}

func (h *TestHarness) RoutedPath() string {
	return h.config.binary(RoutedBinary)
}

func (h *TestHarness) register(s *ScenarioContext) {
	h.lock.Lock()
	h.active[s] = struct{}{}
	h.lock.Unlock()
}

func (h *TestHarness) unregister(s *ScenarioContext) {
	h.lock.Lock()
	delete(h.active, s)
	h.lock.Unlock()
}

// StopServers stops the server of every scenario that has not been closed yet. It is meant for
// an interrupted run, whose scenarios won't get to clean up.
func (h *TestHarness) StopServers() {
	h.lock.Lock()
	scenarios := make([]*ScenarioContext, 0, len(h.active))
	for s := range h.active {
		scenarios = append(scenarios, s)
	}
	h.lock.Unlock()
	for _, s := range scenarios {
		s.server.Stop()
	}
}
