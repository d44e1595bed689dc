// Package expect turns the expectation strings of scenario tables into verdicts.
//
// An expectation is one or more comma-separated numbers, each optionally followed by a unit,
// and optionally a tolerance: "100m, 200m +- 1". Without a tolerance, values must be within 5
// percent of the expected value. With one, the tolerance is an absolute offset for times,
// distances and weights, and a percentage for speeds.
//
// Each column of a route table is an assertion Kind. Columns that are not a Kind are errors.
package expect
