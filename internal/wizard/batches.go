package wizard

import (
	"fmt"
	"strings"
)

// MaxBatches is the largest batch count an event may carry
const MaxBatches = 50

// BatchRow is a ticket batch as edited in the wizard. Values stay as typed
// until the form is converted with ToDraft.
type BatchRow struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity" validate:"omitempty,posint"`
	Price     string `json:"price" validate:"omitempty,money"`
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
}

// Complete reports whether every field holds a value
func (b BatchRow) Complete() bool {
	for _, v := range []string{b.Name, b.Quantity, b.Price, b.StartDate, b.EndDate} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Empty reports whether the row holds nothing beyond its generated name
func (b BatchRow) Empty() bool {
	return strings.TrimSpace(b.Quantity+b.Price+b.StartDate+b.EndDate) == ""
}

// DiscardedBatch is a populated row removed by shrinking the batch count
type DiscardedBatch struct {
	Index int      `json:"index"`
	Row   BatchRow `json:"row"`
}

// SyncResult is the outcome of SyncBatches
type SyncResult struct {
	Batches   []BatchRow       `json:"batches"`
	Discarded []DiscardedBatch `json:"discarded,omitempty"`
}

// TemplateBatch returns the empty row generated for zero-based index n
func TemplateBatch(n int) BatchRow {
	return BatchRow{Name: fmt.Sprintf("Lote %d", n+1)}
}

// SyncBatches resizes rows to count. Rows inside the new length are kept
// unchanged; new rows are templates; rows past count are dropped and, when
// they held data, reported in Discarded. count is clamped to [0, MaxBatches].
func SyncBatches(rows []BatchRow, count int) SyncResult {
	if count < 0 {
		count = 0
	}
	if count > MaxBatches {
		count = MaxBatches
	}

	out := make([]BatchRow, count)
	n := copy(out, rows)
	for i := n; i < count; i++ {
		out[i] = TemplateBatch(i)
	}

	var discarded []DiscardedBatch
	for i := count; i < len(rows); i++ {
		if !rows[i].Empty() {
			discarded = append(discarded, DiscardedBatch{Index: i, Row: rows[i]})
		}
	}

	return SyncResult{Batches: out, Discarded: discarded}
}
