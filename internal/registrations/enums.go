package registrations

// Status is the registration lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
	StatusWaitlist  Status = "WAITLIST"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusWaitlist:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// PaymentStatus tracks money separately from the registration decision.
// Free events stay at NONE for their whole life.
type PaymentStatus string

const (
	PaymentNone     PaymentStatus = "NONE"
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentNone, PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}
