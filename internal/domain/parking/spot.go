package parking

import (
	"regexp"
	"strings"
)

var (
	spotLabelRe = regexp.MustCompile(`^\s*(\d+[A-Za-z]?)\s*$`)

	spotKeywordRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d+[a-z]?)\s*(?:-|:)?\s*(?:booked|reserved)\b`),
		regexp.MustCompile(`(?i)\b(?:spot|space|bay)\s*(?:#|no\.?|number)?\s*(\d+[a-z]?)\b`),
		regexp.MustCompile(`(?i)\b(?:booked|reserved)\s*(?:spot|space|bay)?\s*[:#]?\s*(\d+[a-z]?)\b`),
	}

	clockRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
	tokenRe = regexp.MustCompile(`\b\d+[A-Za-z]?\b`)
	yearRe  = regexp.MustCompile(`^\d{4}$`)
)

// ExtractSpot finds a parking-spot label for a reservation card, trying in
// order: dedicated label elements, keyword phrases in the card text ("126A
// booked", "Spot 42"), then the first bare number that is not part of the
// date, a year or a clock time. It returns "" when nothing qualifies.
func ExtractSpot(labels []string, cardText string, dates TargetDates) string {
	for _, l := range labels {
		if m := spotLabelRe.FindStringSubmatch(l); m != nil {
			return m[1]
		}
	}

	text := stripDates(cardText, dates)
	for _, re := range spotKeywordRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	text = clockRe.ReplaceAllString(text, " ")
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if yearRe.MatchString(tok) {
			continue
		}
		return tok
	}
	return ""
}

func stripDates(text string, dates TargetDates) string {
	for _, d := range dates {
		if d == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)(^|\D)` + regexp.QuoteMeta(d))
		text = re.ReplaceAllString(text, "$1 ")
	}
	return text
}

// Compact flattens multi-line element text for logging.
func Compact(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " | ")), " ")
}
