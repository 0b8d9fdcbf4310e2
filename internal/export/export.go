// Package export writes aggregated day records to disk.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sadopc/habitiviz/internal/history"
)

// Formats lists the supported output formats.
var Formats = []string{"csv", "json", "yaml"}

// Write dispatches to the writer for format. An empty format is inferred
// from the file extension.
func Write(days history.DayRecordSet, format, path string) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "csv":
		return ToCSV(days, path)
	case "json":
		return ToJSON(days, path)
	case "yaml", "yml":
		return ToYAML(days, path)
	default:
		return fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}
