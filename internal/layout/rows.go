package layout

import (
	"fmt"

	"github.com/atomicstack/keypad-popup/internal/keys"
)

// Partition packs keys into rows of at most capacity unit cells. Rows are
// filled greedily from the left; a key that does not fit closes the current
// row and starts the next one. Input order is preserved.
func Partition(ks []keys.Key, capacity int) ([][]keys.Key, error) {
	if capacity <= 0 {
		return nil, &keys.ConfigError{Reason: fmt.Sprintf("row capacity must be > 0 (got %d)", capacity)}
	}
	var rows [][]keys.Key
	var row []keys.Key
	used := 0
	for _, k := range ks {
		span := k.Span()
		if span > capacity {
			return nil, &keys.ConfigError{
				Code:   k.Code,
				Reason: fmt.Sprintf("width %d exceeds row capacity %d", span, capacity),
			}
		}
		if used+span > capacity {
			rows = append(rows, row)
			row = nil
			used = 0
		}
		row = append(row, k)
		used += span
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows, nil
}

// RowUnits returns the number of unit cells used by a row.
func RowUnits(row []keys.Key) int {
	total := 0
	for _, k := range row {
		total += k.Span()
	}
	return total
}
