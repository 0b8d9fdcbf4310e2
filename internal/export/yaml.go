package export

import (
	"fmt"
	"os"

	"github.com/sadopc/habitiviz/internal/history"
	"gopkg.in/yaml.v3"
)

func ToYAML(days history.DayRecordSet, path string) error {
	data, err := yaml.Marshal(buildExport(days))
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write yaml file: %w", err)
	}
	return nil
}
