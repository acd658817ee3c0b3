package runner

import (
	"fmt"
	"strings"

	"github.com/kbukum/flatkit/errors"
)

// End names the end of the sequence a pull is taken from.
type End int

const (
	Front End = iota
	Back
)

func (e End) String() string {
	if e == Back {
		return "back"
	}
	return "front"
}

var endWords = map[string]End{
	"next":  Front,
	"front": Front,
	"back":  Back,
}

// ParseScript parses a pull script. A script is a list of ends separated
// by commas or whitespace, where each word is next, front, back, or a run
// of f and b letters ("fbbf"). Matching is case-insensitive.
func ParseScript(s string) ([]End, error) {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	var script []End
	for i, word := range words {
		if end, ok := endWords[word]; ok {
			script = append(script, end)
			continue
		}
		for _, r := range word {
			switch r {
			case 'f':
				script = append(script, Front)
			case 'b':
				script = append(script, Back)
			default:
				return nil, errors.InvalidInput("script",
					fmt.Sprintf("unknown token %q at word %d; use f, b, next or back", word, i+1))
			}
		}
	}
	return script, nil
}

// FormatScript renders a script as f and b letters.
func FormatScript(script []End) string {
	var b strings.Builder
	for _, end := range script {
		if end == Back {
			b.WriteByte('b')
		} else {
			b.WriteByte('f')
		}
	}
	return b.String()
}
