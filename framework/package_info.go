// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to routing.
//
// The general model is:
//
// 1. Every scenario runs inside a Context, which is similar to Go's *testing.T: it implements
// the TestingT interface of the assert and require packages, accumulates failures, and captures
// debug output that is only shown if the scenario fails (or always, in verbose mode).
//
// 2. A failed assertion ends only the current scenario. The panic used by FailNow is recovered
// by the Context, recorded as a failure, and the run continues with the next scenario.
//
// 3. An infrastructure failure (see SetupError and Context.Abort) is different: it means that no
// later scenario can produce a meaningful result, so every scenario that begins afterward is
// skipped and the run reports failure.
//
// The domain-specific code that knows what is being tested is responsible for driving the
// Context, either through Run or through Begin/Do/End when another runner owns the control flow.
package framework
