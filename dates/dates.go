// Package dates parses the calendar dates accepted by the API.
//
// Parsing is layered:
//  1. ISO date (2025-01-15)
//  2. Compact day offset (+1d, -2w)
//  3. Natural language (today, tomorrow, next monday)
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// MaxOffsetDays bounds compact offsets to roughly ten years either way.
const MaxOffsetDays = 3660

var (
	compactOffsetRe = regexp.MustCompile(`^([+-]?)(\d+)([dw])$`)
	isoShapeRe      = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	// Slash dates are left out: 1/2 is ambiguous between day and month first.
	w.Add(en.All...)
	return w
}

// Parse resolves s to a calendar date relative to now.
func Parse(s string, now time.Time) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	} else if isoShapeRe.MatchString(s) {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	today := civil.DateOf(now)
	switch strings.ToLower(s) {
	case "today", "now":
		return today, nil
	}

	if m := compactOffsetRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return civil.Date{}, fmt.Errorf("invalid offset %q", s)
		}
		if m[3] == "w" {
			n *= 7
		}
		if n > MaxOffsetDays {
			return civil.Date{}, fmt.Errorf("offset %q exceeds %d days", s, MaxOffsetDays)
		}
		if m[1] == "-" {
			n = -n
		}
		return today.AddDays(n), nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return civil.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	// when matches substrings; the expression must be the whole input.
	if r == nil || r.Index != 0 || len(r.Text) != len(s) {
		return civil.Date{}, fmt.Errorf("unrecognized date %q", s)
	}
	return civil.DateOf(r.Time), nil
}
