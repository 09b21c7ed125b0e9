// Package schedule builds and checks payment schedules. Everything here is
// pure: nothing is persisted until a caller turns the items into payments.
package schedule

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"realtyflow/internal/domain"
)

const (
	DefaultDownPaymentPercent = 20
	DefaultInstallmentCount   = 12
	MaxInstallmentCount       = 120
)

var hundred = decimal.NewFromInt(100)

type Input struct {
	TotalAmount decimal.Decimal
	PlanType    domain.PaymentPlan
	// nil means DefaultDownPaymentPercent
	DownPaymentPercent *decimal.Decimal
	// 0 means DefaultInstallmentCount
	InstallmentCount int
	StartDate        time.Time
}

type Item struct {
	Milestone  string          `json:"milestone"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	Percentage decimal.Decimal `json:"percentage"`
	Editable   bool            `json:"editable"`
}

type milestone struct {
	name     string
	percent  decimal.Decimal
	months   int
	editable bool
}

var clpStages = []struct {
	name    string
	percent int64
}{
	{"Booking Amount", 10},
	{"Foundation Complete", 10},
	{"Ground Floor Slab", 10},
	{"1st Floor Slab", 10},
	{"2nd Floor Slab", 10},
	{"Roof Casting", 15},
	{"Plastering Complete", 10},
	{"Flooring & Finishing", 15},
	{"Possession", 10},
}

// Generate returns the ordered schedule for in. Amounts are cut to two
// decimals and whatever that leaves over lands on the last item, so the
// items always add up to the total exactly and none goes negative.
func Generate(in Input) ([]Item, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, ErrInvalidTotal
	}

	dp := decimal.NewFromInt(DefaultDownPaymentPercent)
	if in.DownPaymentPercent != nil {
		dp = *in.DownPaymentPercent
	}
	if dp.IsNegative() || dp.GreaterThan(hundred) {
		return nil, ErrInvalidDownPayment
	}

	n := in.InstallmentCount
	if n == 0 {
		n = DefaultInstallmentCount
	}
	if n < 1 || n > MaxInstallmentCount {
		return nil, ErrInvalidInstallments
	}

	start := in.StartDate.UTC()
	if start.IsZero() {
		start = time.Now().UTC()
	}

	var plan []milestone
	switch in.PlanType {
	case domain.PlanFullDP:
		plan = []milestone{
			{name: "Full Payment", percent: hundred, editable: true},
		}

	case domain.PlanSubvention:
		plan = []milestone{
			{name: "Down Payment", percent: dp, editable: true},
			{name: "During Construction", percent: decimal.Zero, months: 6},
			{name: "On Possession", percent: hundred.Sub(dp), months: 24, editable: true},
		}

	case domain.PlanCLP:
		for i, s := range clpStages {
			plan = append(plan, milestone{name: s.name, percent: decimal.NewFromInt(s.percent), months: i * 3, editable: true})
		}

	case domain.PlanTLP:
		return timeLinked(in.TotalAmount, dp, n, start), nil

	case domain.PlanCustom:
		plan = []milestone{
			{name: "Booking Amount", percent: decimal.NewFromInt(10), editable: true},
			{name: "Balance Payment", percent: decimal.NewFromInt(90), months: 6, editable: true},
		}

	default:
		return nil, ErrUnknownPlan.WithDetails(map[string]any{"plan_type": in.PlanType})
	}

	items := make([]Item, len(plan))
	for i, m := range plan {
		items[i] = Item{
			Milestone: m.name,
			Amount:    in.TotalAmount.Mul(m.percent).Div(hundred).Truncate(2),
			DueDate:   addMonths(start, m.months),
			Editable:  m.editable,
		}
	}
	settleLast(in.TotalAmount, items)
	return Recalculate(in.TotalAmount, items), nil
}

// timeLinked splits what is left after the down payment into n equal
// monthly installments starting one month after start.
func timeLinked(total, dp decimal.Decimal, n int, start time.Time) []Item {
	down := total.Mul(dp).Div(hundred).Truncate(2)
	each := total.Sub(down).Div(decimal.NewFromInt(int64(n))).Truncate(2)

	items := make([]Item, 0, n+1)
	items = append(items, Item{Milestone: "Down Payment", Amount: down, DueDate: start, Editable: true})
	for i := 1; i <= n; i++ {
		items = append(items, Item{
			Milestone: installmentName(i),
			Amount:    each,
			DueDate:   addMonths(start, i),
			Editable:  true,
		})
	}
	settleLast(total, items)
	return Recalculate(total, items)
}

func installmentName(i int) string {
	return "Installment " + strconv.Itoa(i)
}

// settleLast moves the rounding remainder onto the final item.
func settleLast(total decimal.Decimal, items []Item) {
	if len(items) == 0 {
		return
	}
	sum := decimal.Zero
	for _, it := range items[:len(items)-1] {
		sum = sum.Add(it.Amount)
	}
	items[len(items)-1].Amount = total.Sub(sum)
}

// Recalculate returns a copy of items with every percentage recomputed as
// amount / total * 100.
func Recalculate(total decimal.Decimal, items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if total.IsPositive() {
			out[i].Percentage = out[i].Amount.Div(total).Mul(hundred).Round(2)
		} else {
			out[i].Percentage = decimal.Zero
		}
	}
	return out
}

// Validate accepts an edited schedule only when it is non-empty, has no
// negative amounts, leaves locked milestones at zero and adds up to total.
func Validate(total decimal.Decimal, items []Item) error {
	if !total.IsPositive() {
		return ErrInvalidTotal
	}
	if len(items) == 0 {
		return ErrEmptySchedule
	}

	sum := decimal.Zero
	for i, it := range items {
		if it.Amount.IsNegative() {
			return ErrNegativeAmount.WithDetails(map[string]any{"index": i, "milestone": it.Milestone})
		}
		if !it.Editable && !it.Amount.IsZero() {
			return ErrLockedMilestone.WithDetails(map[string]any{"index": i, "milestone": it.Milestone})
		}
		if it.DueDate.IsZero() {
			return ErrMissingDueDate.WithDetails(map[string]any{"index": i, "milestone": it.Milestone})
		}
		sum = sum.Add(it.Amount)
	}

	if remaining := total.Sub(sum); !remaining.IsZero() {
		return ErrScheduleMismatch.WithDetails(map[string]any{
			"total_amount": total,
			"scheduled":    sum,
			"remaining":    remaining,
		})
	}
	return nil
}

// Payments turns a schedule into pending payment rows for bookingID.
// Zero-amount placeholders are not persisted.
func Payments(bookingID string, items []Item) []domain.Payment {
	out := make([]domain.Payment, 0, len(items))
	for i, it := range items {
		if it.Amount.IsZero() {
			continue
		}
		out = append(out, domain.Payment{
			BookingID: bookingID,
			Milestone: it.Milestone,
			Sequence:  i + 1,
			Amount:    it.Amount,
			DueDate:   it.DueDate.UTC(),
			Status:    domain.PaymentPending,
		})
	}
	return out
}

// addMonths keeps the day of month, clamped to the target month's length.
func addMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
