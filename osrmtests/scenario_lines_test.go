package osrmtests

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const linesFeature = `Feature: Lines

    Scenario: First
        Given the profile "car"

    Scenario: Repeated
        Given the profile "car"

    Rule: grouped

        Scenario: Repeated
            Given the profile "car"

    Scenario Outline: Outline <n>
        Given the profile "<n>"

        Examples:
            | n   |
            | car |
            | bike |
`

func TestScenarioLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.feature")
	writeTestFile(t, path, linesFeature, 0o644)
	lines := newScenarioLines()

	assert.Equal(t, 3, lines.Line(path, "First"))
	assert.Equal(t, 6, lines.Line(path, "Repeated"))
	assert.Equal(t, 11, lines.Line(path, "Repeated"))
	assert.Equal(t, 19, lines.Line(path, "Outline car"))
	assert.Equal(t, 20, lines.Line(path, "Outline bike"))
}

func TestScenarioLinesOutOfOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.feature")
	writeTestFile(t, path, linesFeature, 0o644)
	lines := newScenarioLines()

	assert.Equal(t, 6, lines.Line(path, "Repeated"))
	assert.Equal(t, 3, lines.Line(path, "First"))
	assert.Equal(t, 0, lines.Line(path, "Missing"))
	assert.Equal(t, 0, lines.Line(filepath.Join(t.TempDir(), "none.feature"), "First"))
}
