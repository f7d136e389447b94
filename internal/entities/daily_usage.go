package entities

import "time"

// DateLayout is the calendar-day format used for usage counters
const DateLayout = "2006-01-02"

// DailyUsage counts completion-service calls for one user on one calendar day
type DailyUsage struct {
	OwnerID             string `json:"owner_id"`
	Date                string `json:"date"` // DateLayout
	CompletionCallCount int    `json:"completion_call_count"`
}

// UsageDate formats t as a usage calendar day in t's location
func UsageDate(t time.Time) string {
	return t.Format(DateLayout)
}
