package service

import "errors"

var (
	// ErrInvalidSessionID is returned when the session id is empty.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidAttemptID is returned when the attempt id is empty or unknown.
	ErrInvalidAttemptID = errors.New("invalid attempt id")

	// ErrAttemptNotFound is returned when no open attempt matches the id.
	ErrAttemptNotFound = errors.New("booking attempt not found")

	// ErrInvalidItemType is returned when the bookable item type is unknown.
	ErrInvalidItemType = errors.New("invalid item type")

	// ErrInvalidAmount is returned when the amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when the currency code is empty.
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrNotInForm is returned when a form submission arrives outside the form step.
	ErrNotInForm = errors.New("attempt is not in the form step")

	// ErrNotInPayment is returned for payment operations outside the payment step.
	ErrNotInPayment = errors.New("attempt is not in the payment step")

	// ErrAuthenticationRequired is raised when an identified buyer is needed
	// and no authenticated user is present. The attempt does not advance.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrReauthenticate is returned when the payment processor rejects the
	// bearer credential. Retrying with the same credential would loop.
	ErrReauthenticate = errors.New("session expired, please sign in again")

	// ErrGatewayUnavailable is returned for transient payment gateway failures.
	// The attempt stays in the payment step and a retry is safe.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrCheckoutInFlight is returned when a checkout for the same attempt is
	// already running.
	ErrCheckoutInFlight = errors.New("checkout already in progress")

	// ErrCheckoutNotRecorded is the severe case: payment succeeded but the
	// trip was not durably recorded. Must never be swallowed; a retry may
	// double-book, so the caller has to surface it to the user.
	ErrCheckoutNotRecorded = errors.New("payment succeeded but the trip was not recorded")
)
