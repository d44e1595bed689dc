package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Project-OSRM/osrm-contract-tests/framework"
	"github.com/Project-OSRM/osrm-contract-tests/osrmtests"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	zapLogger := newZapLogger(params.debugAll)
	defer func() { _ = zapLogger.Sync() }()
	mainDebugLogger := framework.ZapLogger{Sugar: zapLogger.Sugar()}

	harness, err := osrmtests.NewTestHarness(params.config, mainDebugLogger)
	if err != nil {
		zapLogger.Error("Cannot run the test suite", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	var scenarioDebugLogger framework.Logger
	if params.debugAll {
		scenarioDebugLogger = mainDebugLogger
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results, status := runUntilCancelled(ctx, harness, osrmtests.SuiteOptions{
		Paths:      params.paths,
		Filter:     params.filters.AsFilter,
		TestLogger: testLogger,
		Format:     params.format,
		Output:     os.Stdout,

		DebugLogger: scenarioDebugLogger,
	})

	fmt.Println()
	framework.PrintResults(results)
	if !results.OK() {
		fmt.Printf("\nTo run only the failed scenarios again:\n  %s\n", rerunCommand(os.Args, results))
	}
	if !results.OK() || status != 0 {
		os.Exit(1)
	}
}

// runUntilCancelled runs the suite, and exits as soon as ctx is cancelled. Servers started by the
// current scenario are stopped by the scenario's cleanup, which the runner doesn't reach in that
// case, so they are stopped here through the harness.
func runUntilCancelled(ctx context.Context, harness *osrmtests.TestHarness, options osrmtests.SuiteOptions) (framework.Results, int) {
	type outcome struct {
		results framework.Results
		status  int
	}
	done := make(chan outcome, 1)
	go func() {
		results, status := osrmtests.RunTestSuite(harness, options)
		done <- outcome{results, status}
	}()
	select {
	case o := <-done:
		return o.results, o.status
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "Interrupted, stopping server")
		harness.StopServers()
		os.Exit(130)
		return framework.Results{}, 1
	}
}

func rerunCommand(args []string, results framework.Results) string {
	var cmd commandBuilder
	cmd.add(args[0])
	for _, f := range results.Failures {
		cmd.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	cmd.add(args[1:]...)
	return cmd.String()
}

func newZapLogger(debug bool) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stdout"}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
