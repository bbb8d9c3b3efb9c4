package dashboard

import (
	"distribution-backend/internal/apperror"
	"distribution-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

type ChartPoint struct {
	Label  string          `json:"label"` // bucket start
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

type SalesChart struct {
	Period     string          `json:"period"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Points     []ChartPoint    `json:"points"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

func defaultCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 8
	case PeriodMonthly:
		return 12
	}
	return 7
}

// maxCount bounds the chart to roughly ten years of buckets.
func maxCount(period string) int {
	switch period {
	case PeriodWeekly:
		return 104
	case PeriodMonthly:
		return 120
	}
	return 366
}

// bucketStart maps a day onto the first day of its bucket. Weeks start on Monday.
func bucketStart(period string, d models.Date) models.Date {
	switch period {
	case PeriodWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case PeriodMonthly:
		return models.NewDate(d.Year(), d.Month(), 1)
	}
	return d
}

func nextBucket(period string, d models.Date) models.Date {
	switch period {
	case PeriodWeekly:
		return d.AddDays(7)
	case PeriodMonthly:
		return models.Date{Time: d.Time.AddDate(0, 1, 0)}
	}
	return d.AddDays(1)
}

// SalesChart totals fulfilled orders (gross) per bucket for the last count
// buckets ending today. Empty buckets are included with zero.
func (r *Reports) SalesChart(period string, count int) (SalesChart, error) {
	switch period {
	case "":
		period = PeriodDaily
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
	default:
		return SalesChart{}, apperror.Validation("unknown period %q", period)
	}
	if count < 0 {
		return SalesChart{}, apperror.Validation("count must be positive")
	}
	if count == 0 {
		count = defaultCount(period)
	}
	if limit := maxCount(period); count > limit {
		return SalesChart{}, apperror.Validation("count cannot exceed %d for %s charts", limit, period)
	}

	end := bucketStart(period, r.store.Today())
	start := end
	for i := 1; i < count; i++ {
		switch period {
		case PeriodWeekly:
			start = start.AddDays(-7)
		case PeriodMonthly:
			start = models.Date{Time: start.Time.AddDate(0, -1, 0)}
		default:
			start = start.AddDays(-1)
		}
	}
	last := nextBucket(period, end).AddDays(-1)

	index := make(map[string]int, count)
	points := make([]ChartPoint, 0, count)
	for b := start; !b.After(end); b = nextBucket(period, b) {
		index[b.String()] = len(points)
		points = append(points, ChartPoint{Label: b.String(), Total: decimal.Zero})
	}

	grand := decimal.Zero
	for _, o := range r.fulfilledOrders(Range{From: start, To: last}) {
		i, ok := index[bucketStart(period, o.Date).String()]
		if !ok {
			continue
		}
		total := r.pricing.OrderTotals(o).Total
		points[i].Orders++
		points[i].Total = points[i].Total.Add(total)
		grand = grand.Add(total)
	}

	return SalesChart{
		Period:     period,
		From:       start.String(),
		To:         last.String(),
		Points:     points,
		GrandTotal: grand,
	}, nil
}
