package inventory

import (
	"sort"

	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
)

// ConsumptionOrder picks which batches a deduction drains first.
type ConsumptionOrder int

const (
	// FEFO drains the batch that expires first. Used for finished goods.
	FEFO ConsumptionOrder = iota
	// FIFO drains the batch received first. Used for components.
	FIFO
)

func (o ConsumptionOrder) String() string {
	if o == FIFO {
		return "FIFO"
	}
	return "FEFO"
}

func (o ConsumptionOrder) key(b Batch) models.Date {
	if o == FIFO {
		return b.Received()
	}
	return b.Expiry()
}

type Batch interface {
	Lot() string
	Qty() decimal.Decimal
	Expiry() models.Date
	Received() models.Date
}

type mutableBatch[B any] interface {
	*B
	Batch
	SetQty(decimal.Decimal)
}

// Draw is the quantity taken from one batch by a deduction.
type Draw struct {
	Lot      string          `json:"lot"`
	Quantity decimal.Decimal `json:"quantity"`
}

func TotalStock[B Batch](batches []B) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.Qty())
	}
	return total
}

// Deduct takes qty from batches in the given order and returns the
// remaining batches (emptied ones pruned) plus one Draw per batch touched.
//
// Deduct does not detect a shortfall: when qty exceeds the total it drains
// everything and stops. Callers must compare against TotalStock first.
// The input slice is not modified.
func Deduct[B any, PB mutableBatch[B]](batches []B, qty decimal.Decimal, order ConsumptionOrder) ([]B, []Draw) {
	sorted := make([]B, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return order.key(PB(&sorted[i])).Before(order.key(PB(&sorted[j])))
	})

	var draws []Draw
	remaining := qty
	for i := range sorted {
		if !remaining.IsPositive() {
			break
		}
		b := PB(&sorted[i])
		if !b.Qty().IsPositive() {
			continue
		}
		take := decimal.Min(b.Qty(), remaining)
		b.SetQty(b.Qty().Sub(take))
		remaining = remaining.Sub(take)
		draws = append(draws, Draw{Lot: b.Lot(), Quantity: take})
	}

	kept := make([]B, 0, len(sorted))
	for i := range sorted {
		if PB(&sorted[i]).Qty().IsPositive() {
			kept = append(kept, sorted[i])
		}
	}
	return kept, draws
}

// AddBatch appends b. Batches sharing a lot number are kept apart.
func AddBatch[B any](batches []B, b B) []B {
	return append(batches, b)
}
