// Package dateutil formats recipe creation dates for file names and display.
package dateutil

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Creation date formats.
const (
	FileDateFormat    = "MM-DD-YYYY"   // file name token, e.g. 03-14-2021
	DisplayDateFormat = "MMMM D, YYYY" // document text, e.g. March 14, 2021
)

// MinKnownYear is the first year treated as a real creation date.
// Earlier timestamps come from records that never had one set.
const MinKnownYear = 2000

// UnknownDisplay is shown instead of a date before MinKnownYear.
const UnknownDisplay = "Unknown"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

var (
	fileLayout    = mustParseDateFormat(FileDateFormat)
	displayLayout = mustParseDateFormat(DisplayDateFormat)
)

// CreatedDate holds both renderings of a recipe creation timestamp.
type CreatedDate struct {
	FileToken string // "" when unknown
	Display   string // UnknownDisplay when unknown
}

// Known reports whether the timestamp resolved to a real date.
func (c CreatedDate) Known() bool {
	return c.FileToken != ""
}

// FormatCreated converts a creation timestamp in seconds since the epoch to a
// CreatedDate in loc (time.Local when nil). Years before MinKnownYear, and
// non-finite timestamps, yield {"", "Unknown"}.
func FormatCreated(seconds float64, loc *time.Location) CreatedDate {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return CreatedDate{Display: UnknownDisplay}
	}
	if loc == nil {
		loc = time.Local
	}

	whole, frac := math.Modf(seconds)
	t := time.Unix(int64(whole), int64(frac*float64(time.Second))).In(loc)
	if t.Year() < MinKnownYear {
		return CreatedDate{Display: UnknownDisplay}
	}

	return CreatedDate{
		FileToken: t.Format(fileLayout),
		Display:   t.Format(displayLayout),
	}
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

func mustParseDateFormat(format string) string {
	layout, err := ParseDateFormat(format)
	if err != nil {
		panic("dateutil: " + err.Error())
	}
	return layout
}
