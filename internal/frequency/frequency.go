package frequency

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDate is the LastDoneDate injected when none is configured.
const DefaultDate = "2025-01-15"

// indent is the whitespace placed before the injected field, matching the
// object-member indentation of mockData.js.
const indent = "        "

// pattern matches a numeric Frequency member: key, colon, digits/dots, comma.
var pattern = regexp.MustCompile(`"Frequency":\s*([\d.]+),`)

// convertedPattern matches the start of an injected field directly after a
// rewritten Frequency member.
var convertedPattern = regexp.MustCompile(`^\s*"LastDoneDate"\s*:`)

// Occurrence is a single Frequency member found in the input.
type Occurrence struct {
	Line    int    `json:"line"`
	Raw     string `json:"raw"`
	Months  int64  `json:"months"`
	Skipped bool   `json:"skipped,omitempty"`
}

// Result holds the rewritten text and every occurrence that was matched.
type Result struct {
	Text        string
	Occurrences []Occurrence
}

// Rewritten returns the number of occurrences that were replaced.
func (r Result) Rewritten() int {
	n := 0
	for _, o := range r.Occurrences {
		if !o.Skipped {
			n++
		}
	}
	return n
}

// Skipped returns the number of occurrences left unchanged because their
// literal could not be converted.
func (r Result) Skipped() int {
	return len(r.Occurrences) - r.Rewritten()
}

// Months converts a per-year frequency to an interval in months.
// Zero maps to zero. Otherwise the result is 12/freq rounded half to even,
// so an infinite frequency yields zero.
// ok is false when the result does not fit in an int64.
func Months(freq float64) (months int64, ok bool) {
	if freq == 0 {
		return 0, true
	}
	v := math.RoundToEven(12 / freq)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}

// Rewrite replaces every "Frequency": <number>, member in text with the
// months interval followed by an injected LastDoneDate field.
// Spans already followed by a LastDoneDate field are left alone, so applying
// Rewrite to its own output changes nothing. Text outside the matches is
// copied unchanged.
func Rewrite(text, date string) Result {
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Result{Text: text}
	}

	var (
		sb          strings.Builder
		occurrences []Occurrence
		last        int
		lineFrom    int
	)
	line := 1
	sb.Grow(len(text) + len(matches)*(len(indent)+len(date)+20))

	for _, m := range matches {
		start, end := m[0], m[1]
		if convertedPattern.MatchString(text[end:]) {
			continue
		}
		line += strings.Count(text[lineFrom:start], "\n")
		lineFrom = start

		raw := text[m[2]:m[3]]
		occ := Occurrence{Line: line, Raw: raw}

		sb.WriteString(text[last:start])
		if replacement, months, ok := convert(raw, date); ok {
			occ.Months = months
			sb.WriteString(replacement)
		} else {
			occ.Skipped = true
			sb.WriteString(text[start:end])
		}
		last = end
		occurrences = append(occurrences, occ)
	}
	sb.WriteString(text[last:])

	return Result{Text: sb.String(), Occurrences: occurrences}
}

func convert(raw, date string) (string, int64, bool) {
	freq, err := strconv.ParseFloat(raw, 64)
	// Literals beyond float64 range come back as ±Inf with ErrRange.
	if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(freq, 0)) {
		return "", 0, false
	}
	months, ok := Months(freq)
	if !ok {
		return "", 0, false
	}
	return fmt.Sprintf(`"Frequency": %d,`+"\n"+`%s"LastDoneDate": "%s",`, months, indent, date), months, true
}
