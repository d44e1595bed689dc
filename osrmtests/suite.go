package osrmtests

import (
	"io"

	"github.com/cucumber/godog"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
)

type SuiteOptions struct {
	// Paths are the feature files, or directories of feature files, to run.
	Paths      []string
	Filter     framework.Filter
	TestLogger framework.TestLogger
	// Format is the name of a godog formatter whose output goes to Output. If it is empty, only
	// the TestLogger reports progress.
	Format string
	Output io.Writer
	// DebugLogger, if not nil, receives the debug output of every scenario while it runs, in
	// addition to the output that TestLogger gets when the scenario finishes.
	DebugLogger framework.Logger
}

// RunTestSuite runs every scenario of the feature files, one at a time. It returns the results
// of the scenarios and the exit status of the feature runner, which is nonzero if anything
// failed or if a step had no definition.
func RunTestSuite(harness *TestHarness, options SuiteOptions) (framework.Results, int) {
	root := framework.NewRootContext(options.Filter, options.TestLogger)
	lines := newScenarioLines()

	format, output := options.Format, options.Output
	if format == "" || output == nil {
		format, output = "progress", io.Discard
	}
	suite := godog.TestSuite{
		Name:                "osrm",
		ScenarioInitializer: scenarioInitializer(harness, root, lines, options.DebugLogger),
		Options: &godog.Options{
			Format:      format,
			Output:      output,
			Paths:       options.Paths,
			Concurrency: 1,
			Strict:      true,
		},
	}
	status := suite.Run()
	return root.Results(), status
}
