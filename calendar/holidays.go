package calendar

import "time"

// Fixed-date national holidays as month*100+day.
var jpnFixedHolidays = map[int]struct{}{
	101:  {}, // New Year
	211:  {}, // National Foundation Day
	223:  {}, // Emperor's Birthday
	429:  {}, // Showa Day
	503:  {}, // Constitution Day
	504:  {}, // Greenery Day
	505:  {}, // Children's Day
	811:  {}, // Mountain Day
	1103: {}, // Culture Day
	1123: {}, // Labour Thanksgiving
}

// Bank and exchange closures that are not national holidays.
var jpnMarketClosures = map[int]struct{}{
	102: {}, 103: {}, 1231: {},
}

var krwFixedHolidays = map[int]struct{}{
	101:  {},
	301:  {}, // Independence Movement Day
	505:  {}, // Children's Day
	606:  {}, // Memorial Day
	815:  {}, // Liberation Day
	1003: {}, // National Foundation Day
	1009: {}, // Hangul Day
	1225: {},
	1231: {}, // KRX year-end closing
}

// krwDatedHolidays are the lunar holidays (Seollal, Buddha's Birthday, Chuseok),
// election days, temporary holidays and substitute days as published by KRX.
// Years outside the list fall back to krwFixedHolidays alone.
var krwDatedHolidays = func() map[string]struct{} {
	dates := []string{
		"2024-02-09", "2024-02-12", "2024-04-10", "2024-05-06", "2024-05-15",
		"2024-09-16", "2024-09-17", "2024-09-18", "2024-10-01",
		"2025-01-27", "2025-01-28", "2025-01-29", "2025-01-30", "2025-03-03",
		"2025-05-06", "2025-06-03", "2025-10-06", "2025-10-07", "2025-10-08",
		"2026-02-16", "2026-02-17", "2026-02-18", "2026-03-02", "2026-05-25",
		"2026-06-03", "2026-08-17", "2026-09-24", "2026-09-25", "2026-10-05",
	}
	m := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		m[d] = struct{}{}
	}
	return m
}()

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case TARGET:
		return isTargetHoliday(t)
	case JPN:
		return isJPNHoliday(t)
	case USD:
		return isUSDHoliday(t)
	case KRW:
		if _, ok := krwFixedHolidays[monthDay(t)]; ok {
			return true
		}
		_, ok := krwDatedHolidays[t.Format("2006-01-02")]
		return ok
	default:
		return false
	}
}

func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func isTargetHoliday(t time.Time) bool {
	switch monthDay(t) {
	case 101, 501, 1225, 1226:
		return true
	}
	easter := easterSunday(t.Year())
	return sameDay(t, easter.AddDate(0, 0, -2)) || sameDay(t, easter.AddDate(0, 0, 1))
}

// nthWeekday returns the n-th given weekday of a month; n < 0 counts from the end.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	if n > 0 {
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(wd) - int(first.Weekday()) + 7) % 7
		return first.AddDate(0, 0, offset+7*(n-1))
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset+7*(n+1))
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

func isUSDHoliday(t time.Time) bool {
	y := t.Year()
	fixed := []time.Time{
		time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.July, 4, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.November, 11, 0, 0, 0, 0, time.UTC),
		time.Date(y, time.December, 25, 0, 0, 0, 0, time.UTC),
	}
	if y >= 2022 {
		fixed = append(fixed, time.Date(y, time.June, 19, 0, 0, 0, 0, time.UTC))
	}
	for _, h := range fixed {
		if sameDay(t, observed(h)) {
			return true
		}
	}
	// New Year's Day falling on a Saturday is observed on 31 Dec of the prior year.
	if t.Month() == time.December && t.Day() == 31 && t.Weekday() == time.Friday {
		return true
	}

	floating := []time.Time{
		nthWeekday(y, time.January, time.Monday, 3),   // Martin Luther King Jr.
		nthWeekday(y, time.February, time.Monday, 3),  // Washington's Birthday
		nthWeekday(y, time.May, time.Monday, -1),      // Memorial Day
		nthWeekday(y, time.September, time.Monday, 1), // Labor Day
		nthWeekday(y, time.October, time.Monday, 2),   // Columbus Day
		nthWeekday(y, time.November, time.Thursday, 4),
	}
	for _, h := range floating {
		if sameDay(t, h) {
			return true
		}
	}
	return false
}

func isJPNHoliday(t time.Time) bool {
	if _, ok := jpnMarketClosures[monthDay(t)]; ok {
		return true
	}
	if isJPNNationalHoliday(t) {
		return true
	}
	// citizens' holiday: a day sandwiched between two national holidays
	if t.Weekday() != time.Sunday && isJPNNationalHoliday(t.AddDate(0, 0, -1)) && isJPNNationalHoliday(t.AddDate(0, 0, 1)) {
		return true
	}
	// substitute holiday: the first non-holiday after a holiday falling on Sunday
	for p := t.AddDate(0, 0, -1); isJPNNationalHoliday(p); p = p.AddDate(0, 0, -1) {
		if p.Weekday() == time.Sunday {
			return true
		}
	}
	return false
}

func isJPNNationalHoliday(t time.Time) bool {
	if _, ok := jpnFixedHolidays[monthDay(t)]; ok {
		return true
	}
	y := t.Year()
	happyMondays := []time.Time{
		nthWeekday(y, time.January, time.Monday, 2),   // Coming of Age Day
		nthWeekday(y, time.July, time.Monday, 3),      // Marine Day
		nthWeekday(y, time.September, time.Monday, 3), // Respect for the Aged Day
		nthWeekday(y, time.October, time.Monday, 2),   // Sports Day
	}
	for _, h := range happyMondays {
		if sameDay(t, h) {
			return true
		}
	}
	switch t.Month() {
	case time.March:
		return t.Day() == equinoxDay(y, 20.8431)
	case time.September:
		return t.Day() == equinoxDay(y, 23.2488)
	}
	return false
}

// equinoxDay approximates the day of month of an equinox for 1980-2099.
func equinoxDay(year int, base float64) int {
	n := year - 1980
	return int(base+0.242194*float64(n)) - n/4
}
