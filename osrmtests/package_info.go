// Package osrmtests runs routing scenarios written in Gherkin against a server build.
//
// Each scenario gets a ScenarioContext, which owns the scenario's map, its cache paths, and the
// server process that answers its queries. The step definitions in this package translate
// scenario text into calls on that context, and report results through framework.Context so that
// a failed assertion ends only its own scenario while an infrastructure failure ends the run.
package osrmtests
