package framework

import (
	"errors"
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Skipped returns the number of tests that were skipped.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

// SetupError is an infrastructure failure: something that the test run needs is missing or
// broken, so no further test can produce a meaningful result.
type SetupError struct {
	Err error
}

func (e SetupError) Error() string {
	return fmt.Sprintf("setup failed: %s", e.Err)
}

func (e SetupError) Unwrap() error {
	return e.Err
}

// IsSetupError returns true if err is, or wraps, a SetupError.
func IsSetupError(err error) bool {
	var se SetupError
	return errors.As(err, &se)
}

func PrintResults(results Results) {
	if results.OK() {
		fmt.Printf("All tests passed (%d run, %d skipped)\n", len(results.Tests)-results.Skipped(), results.Skipped())
		return
	}
	fmt.Printf("FAILED TESTS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		fmt.Printf("* %s\n", f.TestID)
		for _, e := range f.Errors {
			for _, line := range strings.Split(e.Error(), "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}
}
