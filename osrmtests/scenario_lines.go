package osrmtests

import (
	"os"
	"regexp"
	"strings"
	"sync"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

type scenarioSlot struct {
	name string
	line int
	// pattern matches the names of an outline's scenarios, whose placeholders are filled in from
	// an examples row.
	pattern *regexp.Regexp
}

func (s scenarioSlot) matches(name string) bool {
	return s.name == name || (s.pattern != nil && s.pattern.MatchString(name))
}

var placeholder = regexp.MustCompile(`<[^>]*>`)

func outlinePattern(name string) *regexp.Regexp {
	parts := placeholder.Split(name, -1)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}

// scenarioLines finds the line of each scenario that the runner starts. The runner only reports a
// scenario's name and file, while cache paths are keyed by line so that scenarios with the same
// name don't collide.
type scenarioLines struct {
	lock    sync.Mutex
	files   map[string][]scenarioSlot
	cursors map[string]int
}

func newScenarioLines() *scenarioLines {
	return &scenarioLines{
		files:   make(map[string][]scenarioSlot),
		cursors: make(map[string]int),
	}
}

// Line returns the line of the next scenario called name in the file. Scenarios are expected in
// file order; each row of a scenario outline's examples counts as a scenario of its own, located
// at the row. It returns 0 if no scenario matches.
func (l *scenarioLines) Line(uri, name string) int {
	l.lock.Lock()
	defer l.lock.Unlock()
	slots, ok := l.files[uri]
	if !ok {
		slots = parseScenarioSlots(uri)
		l.files[uri] = slots
	}
	for i := l.cursors[uri]; i < len(slots); i++ {
		if slots[i].matches(name) {
			l.cursors[uri] = i + 1
			return slots[i].line
		}
	}
	for _, slot := range slots {
		if slot.matches(name) {
			return slot.line
		}
	}
	return 0
}

func parseScenarioSlots(path string) []scenarioSlot {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	doc, err := gherkin.ParseGherkinDocument(f, (&messages.Incrementing{}).NewId)
	if err != nil || doc.Feature == nil {
		return nil
	}
	var slots []scenarioSlot
	for _, child := range doc.Feature.Children {
		if child.Scenario != nil {
			slots = appendScenario(slots, child.Scenario)
		}
		if child.Rule != nil {
			for _, ruleChild := range child.Rule.Children {
				if ruleChild.Scenario != nil {
					slots = appendScenario(slots, ruleChild.Scenario)
				}
			}
		}
	}
	return slots
}

func appendScenario(slots []scenarioSlot, scenario *messages.Scenario) []scenarioSlot {
	if len(scenario.Examples) == 0 {
		return append(slots, scenarioSlot{name: scenario.Name, line: int(scenario.Location.Line)})
	}
	pattern := outlinePattern(scenario.Name)
	for _, examples := range scenario.Examples {
		for _, row := range examples.TableBody {
			slots = append(slots, scenarioSlot{name: scenario.Name, line: int(row.Location.Line), pattern: pattern})
		}
	}
	return slots
}
