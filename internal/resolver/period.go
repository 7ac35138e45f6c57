package resolver

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

var (
	isoDateRegex  = regexp.MustCompile(`\b(20\d{2})-(\d{2})-(\d{2})\b`)
	isoMonthRegex = regexp.MustCompile(`\b(20\d{2})-(\d{2})\b`)
	nDaysRegex    = regexp.MustCompile(`(\d{1,3})\s*(?:дн|дня|дней|day|days)`)
)

// ParsePeriod extracts a reporting period from free text. Returns nil when
// the text names no period; callers apply their own default.
func ParsePeriod(text string, now time.Time) *models.Period {
	t := strings.ToLower(text)
	day := models.DayFloor(now)

	switch {
	case strings.Contains(t, "сегодня") || strings.Contains(t, "today"):
		return &models.Period{From: day, To: day.AddDate(0, 0, 1), Label: "today"}
	case strings.Contains(t, "вчера") || strings.Contains(t, "yesterday"):
		y := day.AddDate(0, 0, -1)
		return &models.Period{From: y, To: day, Label: "yesterday"}
	case strings.Contains(t, "недел") || strings.Contains(t, "week"):
		p := models.LastDays(now, 7, "week")
		return &p
	case strings.Contains(t, "месяц") || strings.Contains(t, "month"):
		p := models.LastDays(now, 30, "month")
		return &p
	case strings.Contains(t, "за год") || strings.Contains(t, "этот год") ||
		strings.Contains(t, "this year") || strings.Contains(t, "за этот год"):
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &models.Period{From: from, To: from.AddDate(1, 0, 0), Label: strconv.Itoa(now.Year())}
	}

	if m := isoDateRegex.FindStringSubmatch(t); m != nil {
		if d, err := time.ParseInLocation("2006-01-02", m[0], now.Location()); err == nil {
			return &models.Period{From: d, To: d.AddDate(0, 0, 1), Label: m[0]}
		}
	}

	if m := isoMonthRegex.FindStringSubmatch(t); m != nil {
		if d, err := time.ParseInLocation("2006-01", m[0], now.Location()); err == nil {
			return &models.Period{From: d, To: d.AddDate(0, 1, 0), Label: m[0]}
		}
	}

	if m := nDaysRegex.FindStringSubmatch(t); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			if n < 1 {
				n = 1
			}
			if n > 365 {
				n = 365
			}
			p := models.LastDays(now, n, m[0])
			return &p
		}
	}

	return nil
}
