package history

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Aggregator groups history rows into per-day records.
type Aggregator struct {
	loc    *time.Location
	logger *zap.Logger
}

// NewAggregator returns an Aggregator that reads day-of-month and weekday in
// loc. A nil logger disables logging.
func NewAggregator(loc *time.Location, logger *zap.Logger) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{loc: loc, logger: logger}
}

// Location returns the zone used for day-of-month and weekday lookups.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// ParseDate extracts the calendar date from a timestamp such as
// "2024-01-01T10:00:00Z". Only the first ten characters are read and the
// result is midnight UTC.
func ParseDate(timestamp string) (time.Time, error) {
	if len(timestamp) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: timestamp %q too short", ErrMalformedRow, timestamp)
	}
	d, err := time.Parse(dateLayout, timestamp[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse date %q: %v", ErrMalformedRow, timestamp, err)
	}
	return d, nil
}

// ValidTask reports whether a task name is worth counting: anything but
// blank.
func ValidTask(task string) bool {
	return strings.TrimSpace(task) != ""
}

// Aggregate groups rows by day and returns the days most recent first.
// Malformed rows are skipped.
func (a *Aggregator) Aggregate(rows []Row) DayRecordSet {
	var days DayRecordSet
	index := make(map[string]int)
	skipped := 0

	for i, r := range rows {
		if !ValidTask(r.Task) {
			skipped++
			a.logger.Debug("skipping history row", zap.Int("row", i), zap.Error(fmt.Errorf("%w: empty task", ErrMalformedRow)))
			continue
		}
		date, err := ParseDate(r.Timestamp)
		if err != nil {
			skipped++
			a.logger.Debug("skipping history row", zap.Int("row", i), zap.Error(err))
			continue
		}

		key := DayKey(date, a.loc)
		if at, ok := index[key]; ok {
			days[at].Tasks = append(days[at].Tasks, r.Task)
			continue
		}
		index[key] = len(days)
		days = append(days, DayRecord{
			Date:    date,
			Key:     key,
			Weekday: date.In(a.loc).Weekday(),
			Tasks:   []string{r.Task},
		})
	}

	slices.SortStableFunc(days, func(x, y DayRecord) int {
		return y.Date.Compare(x.Date)
	})

	a.logger.Debug("aggregated history",
		zap.Int("rows", len(rows)),
		zap.Int("days", len(days)),
		zap.Int("skipped", skipped))
	return days
}
