package models

import (
	"math"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentApproved  PaymentStatus = "Approved"
	PaymentRejected  PaymentStatus = "Rejected"
	PaymentProcessed PaymentStatus = "Processed"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentApproved, PaymentRejected, PaymentProcessed:
		return PaymentStatus(s), true
	}
	return "", false
}

// CanDecide reports whether Approve/Reject is legal from this status.
func (s PaymentStatus) CanDecide() bool {
	return s == PaymentPending
}

// CanProcess reports whether batch processing is legal from this status.
func (s PaymentStatus) CanProcess() bool {
	return s == PaymentApproved
}

// CanDelete reports whether the request may still be removed.
func (s PaymentStatus) CanDelete() bool {
	return s == PaymentPending
}

// PaymentRequest is a batched claim for disbursement covering one or more
// workers' worked days on one project. The total is fixed at creation and
// never recomputed.
type PaymentRequest struct {
	ID              string        `json:"id"`
	RequestID       string        `json:"request_id" validate:"required"` // caller-supplied, globally unique
	ProjectID       string        `json:"project_id" validate:"required,uuid"`
	RequestDate     time.Time     `json:"request_date"`
	TotalAmount     float64       `json:"total_amount"`
	Status          PaymentStatus `json:"status"`
	Notes           *string       `json:"notes,omitempty"`
	DecidedBy       *string       `json:"decided_by,omitempty"` // last decision actor, set on approve and reject
	DecidedAt       *time.Time    `json:"decided_at,omitempty"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`
	Version         int           `json:"-"` // optimistic concurrency token
	CreatedBy       string        `json:"created_by"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	ProjectName string                `json:"project_name,omitempty"`
	Lines       []*PaymentRequestLine `json:"lines,omitempty"`
}

// PaymentRequestLine is one worker's contribution (days × rate) within a
// request. The line total is stored at creation, independent of any later
// change to the worker's pay rate.
type PaymentRequestLine struct {
	ID              string    `json:"id"`
	PaymentRequest  string    `json:"payment_request_id"`
	WorkerID        string    `json:"worker_id" validate:"required,uuid"`
	DaysWorked      int       `json:"days_worked" validate:"required,gt=0"`
	AllowancePerDay float64   `json:"allowance_per_day" validate:"required,gt=0"`
	LineTotal       float64   `json:"line_total"`
	CreatedAt       time.Time `json:"created_at"`

	WorkerName     string `json:"worker_name,omitempty"`
	WorkerPosition string `json:"worker_position,omitempty"`
}

// PaymentFilters scope list queries and aggregates alike.
type PaymentFilters struct {
	OwnerID   string
	ProjectID string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// Round2 rounds a money amount to two fractional digits.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineAmount computes a line total from days worked and the per-day rate.
func LineAmount(daysWorked int, allowancePerDay float64) float64 {
	return Round2(float64(daysWorked) * allowancePerDay)
}

// RequestTotal computes the request total as the sum of line totals,
// filling LineTotal on each line as a side effect.
func RequestTotal(lines []*PaymentRequestLine) float64 {
	var total float64
	for _, l := range lines {
		l.LineTotal = LineAmount(l.DaysWorked, l.AllowancePerDay)
		total += l.LineTotal
	}
	return Round2(total)
}
