package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/gb"
)

// create once at init
var gbCal = cal.NewBusinessCalendar()

func init() {
	gbCal.AddHoliday(
		gb.NewYear,
		gb.GoodFriday,
		gb.EasterMonday,
		gb.EarlyMay,
		gb.SpringHoliday,
		gb.SummerHoliday,
		gb.ChristmasDay,
		gb.BoxingDay,
	)
}

// IsGBBusinessDay reports whether t is a working day in England & Wales.
func IsGBBusinessDay(t time.Time) bool {
	return gbCal.IsWorkday(t)
}

// NextGBBusinessDay returns t unchanged when it already falls on a working
// day, otherwise the next one. Used to keep inspection due dates off
// weekends and bank holidays.
func NextGBBusinessDay(t time.Time) time.Time {
	for !gbCal.IsWorkday(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
