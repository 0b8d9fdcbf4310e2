package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitiviz/internal/history"
)

const dateLayout = "2006-01-02"

type dayExport struct {
	ExportedAt string     `json:"exported_at" yaml:"exported_at"`
	Count      int        `json:"count" yaml:"count"`
	TotalTasks int        `json:"total_tasks" yaml:"total_tasks"`
	Days       []dayEntry `json:"days" yaml:"days"`
}

type dayEntry struct {
	Date    string   `json:"date" yaml:"date"`
	Weekday string   `json:"weekday" yaml:"weekday"`
	Count   int      `json:"count" yaml:"count"`
	Tasks   []string `json:"tasks" yaml:"tasks"`
}

func buildExport(days history.DayRecordSet) dayExport {
	export := dayExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(days),
		TotalTasks: days.TotalTasks(),
	}
	for _, d := range days {
		export.Days = append(export.Days, dayEntry{
			Date:    d.Date.Format(dateLayout),
			Weekday: d.Weekday.String(),
			Count:   d.TaskCount(),
			Tasks:   d.Tasks,
		})
	}
	return export
}

func ToJSON(days history.DayRecordSet, path string) error {
	data, err := json.MarshalIndent(buildExport(days), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
