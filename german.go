package rezept

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	isoDurationRE = regexp.MustCompile(`(?i)^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)(?:[.,]\d+)?S)?)?$`)

	// isoLikeRE matches tokens shaped like ISO-8601 durations, including
	// forms isoDurationRE rejects such as "PT1.5H".
	isoLikeRE = regexp.MustCompile(`(?i)^PT?\d[\dDTHMS.,]*$`)

	// German and abbreviated English units. The leading group keeps whatever
	// preceded the unit so that "30min" and "30 Minuten" both match.
	timeUnitRE = regexp.MustCompile(`(?i)(^|[^\p{L}])(stunden|stunde|std|hours|hour|hrs|minuten|minute|minutes|mins|min|sekunden|sekunde|sek|sec)\b\.?`)
	hourAbbrRE = regexp.MustCompile(`(?i)(\d)\s*h\b\.?`)
	unitGapRE  = regexp.MustCompile(`(\d)\s*(Std|Min|Sek)\b`)

	servingsRE = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?(?:\s*(?:-|–|bis)\s*\d+(?:[.,]\d+)?)?)\s*(personen|person|portionen|portion|stück|stueck|stk)\.?(?:[^\p{L}]|$)`)
	bareCountRE = regexp.MustCompile(`^(\d+(?:[.,]\d+)?(?:\s*(?:-|–|bis)\s*\d+(?:[.,]\d+)?)?)$`)
	rangeSepRE  = regexp.MustCompile(`\s*(?:-|–|bis)\s*`)
)

var timeUnits = map[string]string{
	"stunden":  "Std",
	"stunde":   "Std",
	"std":      "Std",
	"hours":    "Std",
	"hour":     "Std",
	"hrs":      "Std",
	"minuten":  "Min",
	"minute":   "Min",
	"minutes":  "Min",
	"mins":     "Min",
	"min":      "Min",
	"sekunden": "Sek",
	"sekunde":  "Sek",
	"sek":      "Sek",
	"sec":      "Sek",
}

// NormalizeTime rewrites a duration to German short form ("1 Std 30 Min").
// ISO-8601 durations ("PT1H30M") and German unit words are recognized.
// Anything else is returned trimmed but otherwise unchanged.
// NormalizeTime is idempotent.
func NormalizeTime(raw string) string {
	s := norm.NFC.String(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if out, ok := normalizeISODuration(s); ok {
		return out
	}
	if isoLikeRE.MatchString(s) {
		return s
	}

	matched := false
	out := timeUnitRE.ReplaceAllStringFunc(s, func(m string) string {
		sub := timeUnitRE.FindStringSubmatch(m)
		unit, ok := timeUnits[strings.ToLower(sub[2])]
		if !ok {
			return m
		}
		matched = true
		return sub[1] + unit
	})
	if hourAbbrRE.MatchString(out) {
		matched = true
		out = hourAbbrRE.ReplaceAllString(out, "$1 Std")
	}
	if !matched {
		return s
	}
	out = unitGapRE.ReplaceAllString(out, "$1 $2")
	return CleanText(out)
}

// maxDurationPart bounds each ISO component so that day-to-hour conversion
// cannot overflow.
const maxDurationPart = 1_000_000

func normalizeISODuration(s string) (string, bool) {
	sub := isoDurationRE.FindStringSubmatch(s)
	if sub == nil || (sub[1] == "" && sub[2] == "" && sub[3] == "" && sub[4] == "") {
		return "", false
	}
	var n [4]int
	for i, v := range sub[1:] {
		if v == "" {
			continue
		}
		x, err := strconv.Atoi(v)
		if err != nil || x > maxDurationPart {
			return "", false
		}
		n[i] = x
	}
	days, hours, minutes, seconds := n[0], n[1], n[2], n[3]
	hours += days * 24

	switch {
	case hours > 0 && minutes > 0:
		return strconv.Itoa(hours) + " Std " + strconv.Itoa(minutes) + " Min", true
	case hours > 0:
		return strconv.Itoa(hours) + " Std", true
	case minutes > 0:
		return strconv.Itoa(minutes) + " Min", true
	case seconds > 0:
		return strconv.Itoa(seconds) + " Sek", true
	default:
		return "0 Min", true
	}
}

// NormalizeServings rewrites a yield to German form ("4 Portionen").
// A count followed by a person, portion or piece word is canonicalized and a
// bare count is read as portions. Other text is returned trimmed.
// NormalizeServings is idempotent.
func NormalizeServings(raw string) string {
	s := norm.NFC.String(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if sub := bareCountRE.FindStringSubmatch(s); sub != nil {
		return servingsPhrase(sub[1], "portion")
	}
	if sub := servingsRE.FindStringSubmatch(s); sub != nil {
		return servingsPhrase(sub[1], sub[2])
	}
	return s
}

func servingsPhrase(count, unit string) string {
	n := rangeSepRE.ReplaceAllString(count, "-")
	one := n == "1"

	switch u := strings.ToLower(unit); {
	case strings.HasPrefix(u, "person"):
		if one {
			return n + " Person"
		}
		return n + " Personen"
	case strings.HasPrefix(u, "portion"):
		if one {
			return n + " Portion"
		}
		return n + " Portionen"
	default:
		return n + " Stück"
	}
}
