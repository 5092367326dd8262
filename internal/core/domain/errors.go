package domain

import "errors"

// Common domain errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidRole  = errors.New("invalid role")
)

// Workflow errors
var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAlreadyResolved      = errors.New("withdrawal already resolved")
	ErrNoAccountForRole     = errors.New("no account for role")
	ErrSubmissionFailed     = errors.New("submission failed")
	ErrSubmissionInFlight   = errors.New("submission already in flight")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrPaymentAlreadyPaid   = errors.New("payment already paid")
	ErrDialogClosed         = errors.New("payment dialog closed")
)

// Condition returns the machine-readable name of a domain error, or "" for
// errors outside the taxonomy.
func Condition(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrAlreadyResolved):
		return "ALREADY_RESOLVED"
	case errors.Is(err, ErrNoAccountForRole):
		return "NO_ACCOUNT_FOR_ROLE"
	case errors.Is(err, ErrSubmissionFailed):
		return "SUBMISSION_FAILED"
	case errors.Is(err, ErrSubmissionInFlight):
		return "SUBMISSION_IN_FLIGHT"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "INVALID_PAYMENT_METHOD"
	case errors.Is(err, ErrPaymentAlreadyPaid):
		return "PAYMENT_ALREADY_PAID"
	case errors.Is(err, ErrDialogClosed):
		return "DIALOG_CLOSED"
	case errors.Is(err, ErrInvalidRole):
		return "INVALID_ROLE"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	}
	return ""
}

// Message returns the user-facing message for a domain error
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "Jumlah pengeluaran tidak sah"
	case errors.Is(err, ErrAlreadyResolved):
		return "Permohonan ini telah diproses"
	case errors.Is(err, ErrNoAccountForRole):
		return "Akaun demo untuk peranan ini belum disediakan."
	case errors.Is(err, ErrSubmissionFailed):
		return "Pemprosesan gagal, sila cuba lagi"
	case errors.Is(err, ErrSubmissionInFlight):
		return "Permohonan sedang diproses"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "Kaedah pembayaran tidak sah"
	case errors.Is(err, ErrPaymentAlreadyPaid):
		return "Bayaran ini telah dijelaskan"
	case errors.Is(err, ErrDialogClosed):
		return "Sesi pembayaran telah ditutup"
	case errors.Is(err, ErrNotFound):
		return "Rekod tidak dijumpai"
	case errors.Is(err, ErrForbidden):
		return "Anda tidak mempunyai akses"
	}
	return "Ralat dalaman"
}
