package utils

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitSeatNumbers parses "5, 6;7" into sorted unique seat numbers.
func SplitSeatNumbers(raw string) ([]int, error) {
	seen := map[int]bool{}
	out := []int{}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == ' '
	})
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "번"))
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("nomor kursi tidak valid: %q", p)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

// JoinSeatNumbers renders seats as the stored "5,6" form.
func JoinSeatNumbers(seats []int) string {
	parts := make([]string, 0, len(seats))
	for _, s := range seats {
		parts = append(parts, strconv.Itoa(s))
	}
	return strings.Join(parts, ",")
}

// PassengerSummary renders "성인 1명 / 어린이 1명", skipping zero counts.
func PassengerSummary(adults, children, infants int) string {
	parts := []string{}
	if adults > 0 {
		parts = append(parts, fmt.Sprintf("성인 %d명", adults))
	}
	if children > 0 {
		parts = append(parts, fmt.Sprintf("어린이 %d명", children))
	}
	if infants > 0 {
		parts = append(parts, fmt.Sprintf("유아 %d명", infants))
	}
	return strings.Join(parts, " / ")
}

// DaysSummary renders "매일" for all seven days, "-" for none, else "월, 수".
func DaysSummary(days []string) string {
	switch len(days) {
	case 0:
		return "-"
	case 7:
		return "매일"
	}
	return strings.Join(days, ", ")
}

// SeatLabel renders "5호차 5,6" or "" when no seat profile is stored.
func SeatLabel(car int, seats string) string {
	if car <= 0 || strings.TrimSpace(seats) == "" {
		return ""
	}
	return fmt.Sprintf("%d호차 %s", car, seats)
}
