package history

import "time"

// Row is one raw record from a history export.
type Row struct {
	Task      string
	Timestamp string
}

// DayRecord holds every task completed on one calendar day, in arrival order.
type DayRecord struct {
	Date    time.Time
	Key     string
	Weekday time.Weekday
	Tasks   []string
}

// DayRecordSet is sorted by date, most recent first.
type DayRecordSet []DayRecord

// TaskCount returns the number of tasks recorded for the day.
func (d DayRecord) TaskCount() int {
	return len(d.Tasks)
}

// TotalTasks sums the task counts of every day in the set.
func (s DayRecordSet) TotalTasks() int {
	total := 0
	for _, d := range s {
		total += len(d.Tasks)
	}
	return total
}
