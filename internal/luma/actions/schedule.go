package actions

import "time"

var weekdaySchedules = map[time.Weekday]string{
	time.Monday:    "You have your team sync at 10 AM and a focus block after lunch.",
	time.Tuesday:   "Tuesday is light: just the 3 PM review on your calendar.",
	time.Wednesday: "You have the mid-week planning call at 11 AM.",
	time.Thursday:  "Thursday holds your 2 PM one-on-one and gym in the evening.",
	time.Friday:    "Friday wrap-up at 4 PM, then the weekend is yours.",
	time.Saturday:  "No fixed plans today. Good day for errands or a long walk.",
	time.Sunday:    "Rest day. Nothing scheduled before Monday's sync.",
}

// ScheduleFor returns the canned day plan for the given weekday.
func ScheduleFor(day time.Weekday) string {
	return weekdaySchedules[day]
}
