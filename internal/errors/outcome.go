package errors

// Outcome is the closed set of results a task store operation can end in.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeConflict
	OutcomeUnauthorized
	OutcomeStorageFailure
	OutcomeInvalid
)

// String returns the label used in logs and metrics
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeConflict:
		return "conflict"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeStorageFailure:
		return "storage_failure"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// OutcomeOf classifies an error returned by the task store.
// Errors outside the AppError taxonomy count as storage failures.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	appErr, ok := AsAppError(err)
	if !ok {
		return OutcomeStorageFailure
	}
	return appErr.Type.Outcome()
}
