package domain

import (
	"regexp"
	"strings"
)

// Patterns are checked in priority order; the first match wins.
var labelPatterns = []struct {
	label   Label
	pattern *regexp.Regexp
}{
	{LabelOfficial, regexp.MustCompile(`signs|completes|confirmed|announces|official|joins|permanent deal|transfer complete`)},
	{LabelLoan, regexp.MustCompile(`loan|season-long loan|loan deal`)},
	{LabelDeparture, regexp.MustCompile(`departs|leaves|exit|sold|released`)},
	{LabelRumor, regexp.MustCompile(`linked with|interest in|monitoring|target|rumour|rumor|talks|close to`)},
}

// Classify derives an item's label from its title and description
func Classify(title, description string) Label {
	text := strings.ToLower(title + " " + description)
	for _, p := range labelPatterns {
		if p.pattern.MatchString(text) {
			return p.label
		}
	}
	return LabelNews
}
