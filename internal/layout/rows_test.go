package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/atomicstack/keypad-popup/internal/keys"
)

func widthKeys(widths ...int) []keys.Key {
	out := make([]keys.Key, len(widths))
	for i, w := range widths {
		out[i] = keys.Key{Code: keys.Code(fmt.Sprintf("k%d", i)), Width: keys.Units(w)}
	}
	return out
}

func rowWidths(rows [][]keys.Key) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		for _, k := range row {
			out[i] = append(out[i], k.Span())
		}
	}
	return out
}

func TestPartitionGreedyRows(t *testing.T) {
	rows, err := Partition(widthKeys(1, 1, 1, 2, 1), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := fmt.Sprint(rowWidths(rows))
	if got != "[[1 1 1] [2 1]]" {
		t.Fatalf("expected [[1 1 1] [2 1]], got %s", got)
	}
}

func TestPartitionClosesUnderfullRow(t *testing.T) {
	rows, err := Partition(widthKeys(2, 2, 1, 3), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := fmt.Sprint(rowWidths(rows))
	if got != "[[2] [2 1] [3]]" {
		t.Fatalf("expected [[2] [2 1] [3]], got %s", got)
	}
}

func TestPartitionEmpty(t *testing.T) {
	rows, err := Partition(nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestPartitionRejectsOversizedKey(t *testing.T) {
	_, err := Partition(widthKeys(1, 3), 2)
	if !errors.Is(err, keys.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := Partition(widthKeys(1), 0); !errors.Is(err, keys.ErrConfiguration) {
		t.Fatalf("expected configuration error for zero capacity, got %v", err)
	}
}

func TestPartitionProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		capacity := 3 + rng.Intn(4)
		n := rng.Intn(20)
		widths := make([]int, n)
		for i := range widths {
			widths[i] = 1 + rng.Intn(3)
		}
		in := widthKeys(widths...)
		rows, err := Partition(in, capacity)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var flat []keys.Key
		for _, row := range rows {
			if len(row) == 0 {
				t.Fatalf("expected no empty rows for %v", widths)
			}
			if RowUnits(row) > capacity {
				t.Fatalf("row %v exceeds capacity %d", rowWidths([][]keys.Key{row}), capacity)
			}
			flat = append(flat, row...)
		}
		if len(flat) != len(in) {
			t.Fatalf("expected %d keys after concatenation, got %d", len(in), len(flat))
		}
		for i := range in {
			if flat[i].Code != in[i].Code {
				t.Fatalf("order not preserved at %d: %s vs %s", i, flat[i].Code, in[i].Code)
			}
		}
	}
}
