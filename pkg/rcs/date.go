// Copyright © 2018 One Concern

package rcs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDate reads Y.mm.dd.hh.mm.ss dates, in UTC.
//
// Years below 69 are taken as 20YY and years below 100 as 19YY. formatDate
// only writes two digit years for 1969-1999, so every written date reads back
// unchanged.
func parseDate(s string) (time.Time, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 6 {
		return time.Time{}, false
	}
	var n [6]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return time.Time{}, false
		}
		n[i] = v
	}
	year := n[0]
	switch {
	case year < 69:
		year += 2000
	case year < 100:
		year += 1900
	}
	if n[1] < 1 || n[1] > 12 || n[2] < 1 || n[2] > 31 || n[3] > 23 || n[4] > 59 || n[5] > 60 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.UTC)
	if t.Day() != n[2] {
		// e.g. February 30th
		return time.Time{}, false
	}
	return t, true
}

func formatDate(t time.Time) string {
	t = t.UTC()
	year := t.Year()
	if year >= 1969 && year < 2000 {
		year -= 1900
	}
	return fmt.Sprintf("%d.%02d.%02d.%02d.%02d.%02d", year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
}
