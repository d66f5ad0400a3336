package handlers

import (
	"errors"
	"fmt"
	"time"

	"devzora-control-center/internal/logger"
	"devzora-control-center/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errUnknownBillingCycle = errors.New("unknown billing cycle")

var (
	three  = decimal.NewFromInt(3)
	twelve = decimal.NewFromInt(12)
)

// addCalendarMonths advances t by whole calendar months, clamping the day
// to the length of the target month (Jan 31 + 1 month = Feb 28/29).
// time.AddDate normalizes overflow into the following month instead, which
// is the wrong rule for billing dates.
func addCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// nextInvoiceDate returns t advanced by exactly one unit of cycle. A
// quarter is a single +3-month step, not three compounded monthly steps.
func nextInvoiceDate(t time.Time, cycle models.BillingCycle) (time.Time, error) {
	switch cycle {
	case models.CycleMonthly:
		return addCalendarMonths(t, 1), nil
	case models.CycleQuarterly:
		return addCalendarMonths(t, 3), nil
	case models.CycleAnnual:
		return addCalendarMonths(t, 12), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", errUnknownBillingCycle, cycle)
	}
}

// monthlyValue normalizes a billing amount to its monthly equivalent.
func monthlyValue(amount decimal.Decimal, cycle models.BillingCycle) (decimal.Decimal, error) {
	switch cycle {
	case models.CycleMonthly:
		return amount, nil
	case models.CycleQuarterly:
		return amount.Div(three), nil
	case models.CycleAnnual:
		return amount.Div(twelve), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", errUnknownBillingCycle, cycle)
	}
}

// computeMRR sums the monthly-equivalent value of the given subscriptions.
// Cycles are validated on write, so an unknown one here means the row was
// tampered with; it is logged and skipped rather than silently summed.
func computeMRR(subs []models.Subscription) decimal.Decimal {
	mrr := decimal.Zero
	for _, sub := range subs {
		v, err := monthlyValue(sub.Amount, sub.BillingCycle)
		if err != nil {
			logger.Log.Warn().Err(err).Uint("subscription_id", sub.ID).Msg("skipping subscription in MRR")
			continue
		}
		mrr = mrr.Add(v)
	}
	return mrr
}

// daysOverdue counts whole days between due and now. Floor semantics: a
// due date 23 hours ago is 0 days overdue.
func daysOverdue(due, now time.Time) int {
	if !due.Before(now) {
		return 0
	}
	return int(now.Sub(due).Hours() / 24)
}

// ensureInvoiceSequence makes sure the counter row for year exists. Runs
// outside the invoice transaction: losing the insert race to a concurrent
// request is fine, the row is there either way.
func ensureInvoiceSequence(db *gorm.DB, year int) error {
	var seq models.InvoiceSequence
	err := db.Where("year = ?", year).First(&seq).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(&models.InvoiceSequence{Year: year}).Error; err != nil {
		// concurrent insert won; verify the row is there
		if err2 := db.Where("year = ?", year).First(&seq).Error; err2 != nil {
			return err
		}
	}
	return nil
}

// issueInvoiceNumber bumps the year counter and formats the display number
// INV-<year>-<seq>. The single UPDATE row-locks the counter for the rest of
// tx, so two invoices can never share a number.
func issueInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	res := tx.Model(&models.InvoiceSequence{}).
		Where("year = ?", year).
		UpdateColumn("last_value", gorm.Expr("last_value + 1"))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("invoice sequence for %d missing", year)
	}

	var seq models.InvoiceSequence
	if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
		return "", err
	}
	return formatInvoiceNumber(year, seq.LastValue), nil
}

func formatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
