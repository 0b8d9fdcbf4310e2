package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sadopc/habitiviz/internal/history"
)

const taskSeparator = "; "

func ToCSV(days history.DayRecordSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Weekday", "Tasks", "Count"}); err != nil {
		return err
	}

	for _, d := range days {
		row := []string{
			d.Date.Format(dateLayout),
			d.Weekday.String(),
			strings.Join(d.Tasks, taskSeparator),
			strconv.Itoa(d.TaskCount()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
