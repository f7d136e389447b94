package prompts

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	optionPrefix  = "選択肢"
	commentPrefix = "コメント"
)

// LineKind classifies one line of a choice response
type LineKind int

const (
	LineOther LineKind = iota
	LineOption
	LineComment
)

// Line is a classified response line
type Line struct {
	Kind   LineKind
	Number int    // option number as written, 0 when absent
	Text   string // trimmed text after the first separator
}

// Choices is the result of parsing a choice response
type Choices struct {
	Options []string `json:"options"`
	Comment string   `json:"comment"`
}

var (
	optionLine  = regexp.MustCompile(`^(?:選択肢|(?i:option))\s*([0-9０-９]*)\s*[:：](.*)$`)
	commentLine = regexp.MustCompile(`^(?:コメント|(?i:comment))\s*[:：](.*)$`)
)

// Classify tags a single line. Leading and trailing whitespace is ignored.
func Classify(line string) Line {
	line = strings.TrimSpace(line)

	if m := optionLine.FindStringSubmatch(line); m != nil {
		return Line{
			Kind:   LineOption,
			Number: optionNumber(m[1]),
			Text:   strings.TrimSpace(m[2]),
		}
	}
	if m := commentLine.FindStringSubmatch(line); m != nil {
		return Line{
			Kind: LineComment,
			Text: strings.TrimSpace(m[1]),
		}
	}
	return Line{Kind: LineOther, Text: line}
}

// ParseChoices extracts options and the comment from a completion response.
// Options keep input order and blank options are dropped. The last comment
// line wins. It never fails; a response with no recognizable lines yields
// empty Choices.
func ParseChoices(text string) Choices {
	choices := Choices{Options: []string{}}

	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line := Classify(raw)
		switch line.Kind {
		case LineOption:
			if line.Text == "" {
				continue
			}
			choices.Options = append(choices.Options, line.Text)
		case LineComment:
			choices.Comment = line.Text
		}
	}

	return choices
}

func optionNumber(s string) int {
	if s == "" {
		return 0
	}
	// Full-width digits sit at a fixed offset from ASCII
	var b strings.Builder
	for _, r := range s {
		if r >= '０' && r <= '９' {
			r = '0' + (r - '０')
		}
		b.WriteRune(r)
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
