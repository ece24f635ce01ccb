package tasks

import "time"

// MonthKey returns the YYYY-MM partition key for the month containing t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// EndOfMonth returns the last instant (23:59:59.999) of the calendar month
// containing t. Day 0 of the following month is the last day of this one,
// which handles December rollover and leap Februaries.
func EndOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 23, 59, 59, 999*int(time.Millisecond), t.Location())
}
