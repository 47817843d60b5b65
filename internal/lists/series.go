package lists

import (
	"regexp"
	"strconv"
	"strings"
)

// Series is a series membership. Position is zero when unknown and may be
// fractional for novellas ("1.5").
type Series struct {
	Name     string  `json:"name"`
	Position float64 `json:"position,omitempty"`
}

// IsZero reports whether s carries no series name.
func (s Series) IsZero() bool {
	return s.Name == ""
}

// Tried in order; the first match wins.
var seriesPatterns = []*regexp.Regexp{
	// "Name #3", "Name, #3", "Name #3.5"
	regexp.MustCompile(`^(.+?),?\s*#\s*(\d+(?:\.\d+)?)$`),
	// "Name (Book 3)", "Name (Volume 2)"
	regexp.MustCompile(`(?i)^(.+?)\s*\((?:book|vol\.?|volume|part)\s*(\d+(?:\.\d+)?)\)$`),
	// "Name 3"
	regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)$`),
}

// ParseSeries parses a series label such as "Mistborn #1" or
// "The Expanse (Book 4)". A label with no recognisable position yields the
// bare name with Position zero. An empty label yields the zero Series.
func ParseSeries(label string) Series {
	label = CollapseWhitespace(label)
	if label == "" {
		return Series{}
	}
	for _, re := range seriesPatterns {
		if m := re.FindStringSubmatch(label); m != nil {
			name := strings.TrimRight(strings.TrimSpace(m[1]), ",")
			if name == "" {
				continue
			}
			return Series{Name: name, Position: parsePosition(m[2])}
		}
	}
	return Series{Name: label}
}

// FindSeriesPosition looks for the position that follows seriesName inside
// text, e.g. "Mistborn: The Final Empire (Mistborn, Book 1)". Matching is
// case-insensitive and seriesName is treated literally.
func FindSeriesPosition(text, seriesName string) (float64, bool) {
	seriesName = strings.TrimSpace(seriesName)
	if text == "" || seriesName == "" {
		return 0, false
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(seriesName) +
		`\s*,?\s*(?:#|book\s+|vol\.?\s*|volume\s+|part\s+)?(\d+(?:\.\d+)?)`)
	if err != nil {
		return 0, false
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	pos := parsePosition(m[1])
	return pos, pos > 0
}

func parsePosition(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
