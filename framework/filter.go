package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter returns true if the test with the given ID should run.
type Filter func(TestID) bool

// ScenarioFilters selects scenarios by the patterns given with -run and -skip. A scenario runs
// if its ID matches at least one Run pattern, or there are none, and matches no Skip pattern.
type ScenarioFilters struct {
	Run  Patterns
	Skip Patterns
}

func (f ScenarioFilters) AsFilter(id TestID) bool {
	name := id.String()
	if len(f.Run) > 0 && !f.Run.MatchAny(name) {
		return false
	}
	return !f.Skip.MatchAny(name)
}

// Describe returns a line for each kind of pattern in use, and nothing if every scenario runs.
func (f ScenarioFilters) Describe() []string {
	var lines []string
	if len(f.Run) > 0 {
		lines = append(lines, "run only scenarios matching "+f.Run.String())
	}
	if len(f.Skip) > 0 {
		lines = append(lines, "skip scenarios matching "+f.Skip.String())
	}
	return lines
}

// Patterns is a repeatable command-line flag. Each use adds one regular expression.
type Patterns []*regexp.Regexp

func (p Patterns) String() string {
	quoted := make([]string, 0, len(p))
	for _, rx := range p {
		quoted = append(quoted, fmt.Sprintf("%q", rx.String()))
	}
	return strings.Join(quoted, " or ")
}

func (p *Patterns) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid scenario pattern %q: %w", value, err)
	}
	*p = append(*p, rx)
	return nil
}

func (p Patterns) MatchAny(s string) bool {
	for _, rx := range p {
		if rx.MatchString(s) {
			return true
		}
	}
	return false
}

func PrintFilterDescription(w io.Writer, filters ScenarioFilters) {
	lines := filters.Describe()
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, "Some scenarios will be skipped:")
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
}
