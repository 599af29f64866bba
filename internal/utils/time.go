package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	layoutDate      = "2006-01-02"
	layoutCanonical = "2006-01-02 15:04"
)

// KST is the timezone every label is rendered in.
var KST = loadKST()

func loadKST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}

var weekdayLetters = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// NowKST returns current time in KST.
func NowKST() time.Time {
	return time.Now().In(KST)
}

// WeekdayLetter returns the one-letter Korean weekday ("화").
func WeekdayLetter(d time.Weekday) string {
	return weekdayLetters[d]
}

// ParseWeekday accepts "화" or "화요일".
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "요일")
	for i, l := range weekdayLetters {
		if l == s {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

// ParseDate parses YYYY-MM-DD in KST.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), KST)
}

// FormatDate formats time to YYYY-MM-DD in KST.
func FormatDate(t time.Time) string {
	return t.In(KST).Format(layoutDate)
}

// FormatCanonical is the persisted departure_time format.
func FormatCanonical(t time.Time) string {
	return t.In(KST).Format(layoutCanonical)
}

// FormatDateLabel renders "2025.11.18(화)".
func FormatDateLabel(t time.Time) string {
	t = t.In(KST)
	return fmt.Sprintf("%04d.%02d.%02d(%s)", t.Year(), int(t.Month()), t.Day(), WeekdayLetter(t.Weekday()))
}

// FormatHourSlot renders "10시 이후".
func FormatHourSlot(hour int) string {
	return fmt.Sprintf("%02d시 이후", hour)
}

// FormatDepartureLabel renders "2025.11.18(화) 10시 이후".
func FormatDepartureLabel(t time.Time) string {
	return FormatDateLabel(t) + " " + FormatHourSlot(t.In(KST).Hour())
}

// FormatLongDate renders "2025년 11월 18일 (화)".
func FormatLongDate(t time.Time) string {
	t = t.In(KST)
	return fmt.Sprintf("%d년 %d월 %d일 (%s)", t.Year(), int(t.Month()), t.Day(), WeekdayLetter(t.Weekday()))
}

// FormatWeeklyLabel renders "화요일 10시 이후" for recurring profiles.
func FormatWeeklyLabel(d time.Weekday, hour int) string {
	return WeekdayLetter(d) + "요일 " + FormatHourSlot(hour)
}

var (
	reDotted = regexp.MustCompile(`^(\d{4})\.(\d{1,2})\.(\d{1,2})\s*\(([^)]+)\)(?:\s*(\d{1,2})시(?:\s*이후)?)?$`)
	reLong   = regexp.MustCompile(`^(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일\s*\(([^)]+)\)(?:\s*(\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
)

// ParseDepartureLabel accepts every departure format seen in stored data:
//
//	2025-11-18 10:00
//	2025-11-18
//	2025.11.18(화) 10시 이후
//	2025.11.18(화)
//	2025년 11월 18일 (화) 10:00:00
//
// A weekday in parentheses must agree with the date.
func ParseDepartureLabel(s string) (time.Time, error) {
	s = NormalizeSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("departure_time kosong")
	}
	if t, err := time.ParseInLocation(layoutCanonical, s, KST); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(layoutDate, s, KST); err == nil {
		return t, nil
	}

	var y, mo, d, h, mi, sec int
	var wd string
	switch {
	case reDotted.MatchString(s):
		m := reDotted.FindStringSubmatch(s)
		y, mo, d, wd = atoi(m[1]), atoi(m[2]), atoi(m[3]), m[4]
		h = atoi(m[5])
	case reLong.MatchString(s):
		m := reLong.FindStringSubmatch(s)
		y, mo, d, wd = atoi(m[1]), atoi(m[2]), atoi(m[3]), m[4]
		h, mi, sec = atoi(m[5]), atoi(m[6]), atoi(m[7])
	default:
		return time.Time{}, fmt.Errorf("format departure_time tidak dikenali: %q", s)
	}

	if mo < 1 || mo > 12 || d < 1 || d > 31 || h > 23 || mi > 59 || sec > 59 {
		return time.Time{}, fmt.Errorf("departure_time di luar rentang: %q", s)
	}
	t := time.Date(y, time.Month(mo), d, h, mi, sec, 0, KST)
	if t.Day() != d {
		return time.Time{}, fmt.Errorf("tanggal tidak valid: %q", s)
	}
	if want, ok := ParseWeekday(wd); !ok || want != t.Weekday() {
		return time.Time{}, fmt.Errorf("hari %q tidak cocok dengan tanggal %s", wd, FormatDate(t))
	}
	return t, nil
}

// NormalizeDepartureTime converts any accepted label to the canonical format.
func NormalizeDepartureTime(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	t, err := ParseDepartureLabel(s)
	if err != nil {
		return "", err
	}
	return FormatCanonical(t), nil
}

var reClock = regexp.MustCompile(`^(오전|오후)?\s*(\d{1,2})(?::(\d{2}))?$`)

// ParseHourSlot extracts the hour from "10시 이후", "10시", "오후 01:00" or "13:00".
func ParseHourSlot(s string) (int, error) {
	s = NormalizeSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "이후"))
	s = strings.TrimSuffix(s, "시")
	m := reClock.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("format jam tidak dikenali: %q", s)
	}
	h := atoi(m[2])
	switch m[1] {
	case "오전":
		if h == 12 {
			h = 0
		}
	case "오후":
		if h < 12 {
			h += 12
		}
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("jam di luar rentang: %q", s)
	}
	return h, nil
}

// NextDeparture picks the earliest day in days strictly after now's date at
// hour:00. Empty days means every day.
func NextDeparture(now time.Time, days []string, hour int) (time.Time, error) {
	now = now.In(KST)
	wanted := map[time.Weekday]bool{}
	for _, d := range days {
		wd, ok := ParseWeekday(d)
		if !ok {
			return time.Time{}, fmt.Errorf("hari tidak dikenal: %q", d)
		}
		wanted[wd] = true
	}

	for i := 1; i <= 7; i++ {
		day := now.AddDate(0, 0, i)
		if len(wanted) == 0 || wanted[day.Weekday()] {
			return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, KST), nil
		}
	}
	return time.Time{}, fmt.Errorf("tidak ada hari keberangkatan")
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
