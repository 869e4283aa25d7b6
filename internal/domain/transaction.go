package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusDenied   TransactionStatus = "denied"
)

func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusApproved || s == TransactionStatusDenied
}

type DenialReason string

const (
	DenialReasonNone               DenialReason = ""
	DenialReasonCategoryNotAllowed DenialReason = "category_not_allowed"
	DenialReasonInsufficientFunds  DenialReason = "insufficient_funds"
)

// DateLayout is the layout transaction dates are persisted with.
const DateLayout = "2006-01-02 15:04 UTC"

// Transaction is one entry of an account's history. RawDate holds the
// stored date text when it did not parse with DateLayout; Date is zero then.
type Transaction struct {
	Type    string
	Amount  decimal.Decimal
	Status  TransactionStatus
	Date    time.Time
	RawDate string
}

// DateText renders the date for display and storage.
func (t Transaction) DateText() string {
	if t.RawDate != "" {
		return t.RawDate
	}
	return t.Date.UTC().Format(DateLayout)
}

// Decision is the outcome of submitting a transaction. Reason is only set
// for denials.
type Decision struct {
	Status      TransactionStatus
	Reason      DenialReason
	Transaction Transaction
	Balance     decimal.Decimal
}

func (d *Decision) Approved() bool {
	return d.Status == TransactionStatusApproved
}

var allowedCategories = map[string]struct{}{
	"doctor":       {},
	"prescription": {},
	"dental":       {},
	"vision":       {},
	"therapy":      {},
	"lab":          {},
}

// IsAllowedCategory reports whether category, ignoring case and surrounding
// whitespace, is an eligible expense category.
func IsAllowedCategory(category string) bool {
	_, ok := allowedCategories[strings.ToLower(strings.TrimSpace(category))]
	return ok
}

// AllowedCategories returns the allow-list in alphabetical order.
func AllowedCategories() []string {
	out := make([]string, 0, len(allowedCategories))
	for c := range allowedCategories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NormalizeEmail is the form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
