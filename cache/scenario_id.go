package cache

import (
	"fmt"
	"strings"
	"unicode"
)

const maxSlugLength = 64

var slugRemover = strings.NewReplacer(
	"/", "", `\`, "", "-", "", "'", "", "=", "", ",", "",
	"(", "", ")", "", ":", "", "*", "", "#", "",
)

// ScenarioID turns a scenario's line number and name into a file name prefix that is unique
// within its feature file and safe to use on any filesystem.
func ScenarioID(line int, name string) string {
	slug := slugRemover.Replace(strings.ToLower(name))
	slug = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, slug)
	slug = strings.ReplaceAll(slug, "__", "_")
	slug = strings.ReplaceAll(slug, "..", ".")
	if r := []rune(slug); len(r) > maxSlugLength {
		slug = string(r[:maxSlugLength])
	}
	return fmt.Sprintf("%d_%s", line, slug)
}
