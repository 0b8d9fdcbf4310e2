package history

import (
	"fmt"
	"time"
)

// DayKey formats t as YYYYMMDD. Year and month are read in UTC while the
// day of month is read in loc, matching how Habitica exports were grouped
// historically. Near midnight UTC this can shift the day for zones west of
// Greenwich; pass time.UTC to get a plain UTC key.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	u := t.UTC()
	return fmt.Sprintf("%04d%02d%02d", u.Year(), int(u.Month()), t.In(loc).Day())
}
