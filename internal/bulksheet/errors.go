package bulksheet

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// SchemaError indicates the export is missing columns the optimizer needs.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing the following required columns: %s. "+
		"Please ensure your bulksheet export includes these columns and that the column names are correct",
		strings.Join(e.Missing, ", "))
}

// ResourceError indicates the input or output file could not be accessed.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("input file not found: %s", e.Path)
	}
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RequireColumns checks the header for every exact and case-insensitive name and
// reports all that are absent in one SchemaError.
func RequireColumns(t *Table, exact, folded []string) error {
	var missing []string
	for _, name := range exact {
		if _, ok := t.Index(name); !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range folded {
		if _, ok := t.IndexFold(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
