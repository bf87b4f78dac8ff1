package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultAnomalousYear is the calendar year whose upstream CSV export
// swapped day and month whenever the day value was 12 or lower. Set
// ParserConfig.AnomalousYear to 0 to disable the correction.
const DefaultAnomalousYear = 2023

// GermanMonths returns the month-name table used by the localized long
// date form.
func GermanMonths() map[string]time.Month {
	return map[string]time.Month{
		"Januar":    time.January,
		"Februar":   time.February,
		"März":      time.March,
		"April":     time.April,
		"Mai":       time.May,
		"Juni":      time.June,
		"Juli":      time.July,
		"August":    time.August,
		"September": time.September,
		"Oktober":   time.October,
		"November":  time.November,
		"Dezember":  time.December,
	}
}

// UnparseableDateError marks a date string matching neither accepted
// textual form. The offending row must be dropped, never stored with a
// placeholder date.
type UnparseableDateError struct {
	Value string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Value)
}

var (
	numericDateRe = regexp.MustCompile(`^(\d+)-(\d\d)-(\d\d)$`)
	longDateRe    = regexp.MustCompile(`^(..), (\d+)\. ([A-ZÄÖÜ].+) (\d+)$`)
)

// ParseDate parses the two date forms observed in upstream CSVs:
// numeric "YYYY-MM-DD" and the localized long form
// "<weekday>, <day>. <Monat> <year>". The weekday token is discarded
// without validation.
func (p *Parser) ParseDate(s string) (time.Time, error) {
	if m := numericDateRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		third, _ := strconv.Atoi(m[3])

		month, day := second, third
		// The anomalous year's export wrote YYYY-DD-MM whenever the day
		// fit into a month slot; reinterpret those positionally.
		if year == p.cfg.AnomalousYear && third <= 12 {
			day, month = second, third
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, &UnparseableDateError{Value: s}
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}

	if m := longDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[4])
		month, ok := p.cfg.Months[m[3]]
		if !ok {
			p.log.Error("unknown month name, assuming March",
				"name", m[3], "hex", hexRunes(m[3]))
			month = time.March
		}
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, &UnparseableDateError{Value: s}
}

func hexRunes(s string) string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, ":")
}
