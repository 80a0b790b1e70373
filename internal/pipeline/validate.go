package pipeline

import (
	"fmt"
	"strings"

	"sales-analytics/internal/model"
)

// validateColumns checks that a header carries every required column.
// Extra columns are allowed and kept for duplicate detection.
func validateColumns(columns []string) error {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "") {
		return fmt.Errorf("empty header")
	}

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, field := range model.RequiredColumns {
		if !present[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
