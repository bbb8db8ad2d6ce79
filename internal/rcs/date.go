package rcs

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseRCSDate parses an RCS admin-section date: six dot-separated numeric
// fields (year.month.day.hour.minute.second), UTC, seconds precision.
// A one- or two-digit leading year field is 1900-based (spec.md section 6).
func parseRCSDate(text string) (time.Time, error) {
	fields := strings.Split(strings.TrimSpace(text), ".")
	if len(fields) != 6 {
		return time.Time{}, fmt.Errorf("malformed date %q: want 6 dot-separated fields, got %d", text, len(fields))
	}
	nums := make([]int, 6)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, fmt.Errorf("malformed date %q: field %d not numeric: %v", text, i, err)
		}
		nums[i] = n
	}
	year := nums[0]
	if year < 100 {
		year += 1900
	}
	return time.Date(year, time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.UTC), nil
}
