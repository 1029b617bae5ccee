package domain

import "time"

// Adjustment — итог обработки обратной связи.
type Adjustment string

const (
	AdjustmentApplied Adjustment = "applied"
	AdjustmentNone    Adjustment = "none"
	AdjustmentError   Adjustment = "error"
)

// FeedbackEvent — запись об обработанной обратной связи по совпадению.
type FeedbackEvent struct {
	ID           string // uuid
	TenderID     string
	VendorID     string
	MatchSuccess bool
	Selected     bool
	Rating       *int
	Comments     string
	Adjustment   Adjustment
	Reason       string
	Weight       float64
	CreatedAt    time.Time
}
