package domain

// Rail is a distinct payment settlement pathway.
type Rail string

const (
	RailMobileMoney  Rail = "MOBILE_MONEY"
	RailBankTransfer Rail = "BANK_TRANSFER"
	RailCard         Rail = "CARD"
)

// LocalRail reports whether the rail settles on-page without a redirect.
func LocalRail(r Rail) bool {
	return r == RailMobileMoney || r == RailBankTransfer
}

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)
