// Package planparser turns the loosely structured text returned by the
// diet generator into ordered sections. The format is a lightweight
// heading convention: "###" starts a section, "-" or "*" bullets fill
// it, anything else is ignored.
package planparser

import "strings"

type Section struct {
	Title   string
	Content []string
}

var titleNormalizer = strings.NewReplacer(
	"*", "",
	"“", "\"",
	"”", "\"",
	"‘", "'",
	"’", "'",
)

// Parse extracts sections from generated plan text. Bullet lines seen
// before the first heading have no section to belong to and are
// dropped. A heading followed immediately by another heading or by
// end of input still yields a section with an empty content list.
func Parse(text string) []Section {
	var sections []Section

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)

		switch {
		case strings.HasPrefix(line, "###"):
			title := strings.TrimSpace(titleNormalizer.Replace(strings.TrimPrefix(line, "###")))
			sections = append(sections, Section{Title: title, Content: []string{}})
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if len(sections) == 0 {
				continue
			}
			item := strings.TrimSpace(line[2:])
			if item == "" {
				continue
			}
			last := &sections[len(sections)-1]
			last.Content = append(last.Content, item)
		}
	}

	return sections
}
