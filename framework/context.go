package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrSkipped is returned by Do when the action skipped the test.
var ErrSkipped = errors.New("test was skipped")

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
	aborted    error
}

type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// NewRootContext creates the top-level context of a test run. Tests are added to it with
// Begin/End, and driven step by step through Do by some other runner.
func NewRootContext(filter Filter, testLogger TestLogger) *Context {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	return &Context{env: &environment{filter: filter, testLogger: testLogger}}
}

// Results returns the results accumulated so far by every test in this run.
func (c *Context) Results() Results {
	return c.env.results
}

// do runs the action, converting a panic into a test failure. It returns true if the action
// panicked.
func (c *Context) do(action func(*Context)) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			c.recovered(r)
		}
	}()
	action(c)
	return false
}

func (c *Context) recovered(r interface{}) {
	if c.skipped {
		return
	}
	c.failed = true
	var addError error
	if _, ok := r.(*Context); ok {
		if len(c.errors) == 0 {
			addError = errors.New("test failed with no failure message")
		}
	} else {
		addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
	}
	if addError != nil {
		c.errors = append(c.errors, addError)
		c.env.testLogger.TestError(c.id, addError)
	}
}

func (c *Context) record() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
	if c.id.Path == nil {
		return
	}
	result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
	c.env.results.Tests = append(c.env.results.Tests, result)
	if c.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Begin starts a subtest whose body will be supplied in pieces through Do. The caller must
// call End on the returned context when the subtest is over.
//
// If the filter excludes the subtest, or an earlier test aborted the run, the returned context
// is already marked as skipped and Do will not run anything.
func (c *Context) Begin(name string) *Context {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}
	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	if c.env.filter != nil && !c.env.filter(id) {
		c1.skipped = true
		c1.skipReason = "excluded by filter parameters"
	} else if c.env.aborted != nil {
		c1.skipped = true
		c1.skipReason = fmt.Sprintf("run aborted after infrastructure failure: %s", c.env.aborted)
	}
	return c1
}

// Do runs one piece of a subtest that was started with Begin. It returns ErrSkipped if the test
// is skipped, or an error summarizing the failures that this piece caused.
func (c *Context) Do(action func()) error {
	if c.skipped {
		return ErrSkipped
	}
	before := len(c.errors)
	c.do(func(*Context) { action() })
	if c.skipped {
		return ErrSkipped
	}
	if len(c.errors) > before {
		return joinErrors(c.errors[before:])
	}
	return nil
}

// End finishes a subtest that was started with Begin.
func (c *Context) End() {
	c.record()
	c.finish()
}

func (c *Context) finish() {
	if c.skipped {
		c.env.testLogger.TestSkipped(c.id, c.skipReason)
	} else {
		c.env.testLogger.TestFinished(c.id, c.failed, c.debugLogger.Output())
	}
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

// Abort fails the current test because of an infrastructure problem rather than a test
// assertion. Every test that begins after this is skipped.
func (c *Context) Abort(err error) {
	if c.env.aborted == nil {
		c.env.aborted = err
	}
	c.Errorf("%s", err)
	c.FailNow()
}

// Aborted returns the error that aborted the run, if any.
func (c *Context) Aborted() error {
	return c.env.aborted
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules a function to run when the test ends, in reverse order of scheduling.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
