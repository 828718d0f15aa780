// Package internal_error defines the domain-level error type used across
// entities, usecases and the engine core. It carries a coarse Err category
// (used by configuration/rest_err to pick an HTTP status) plus an optional
// Kind and Details for the richer error taxonomy the auction engine needs
// (BelowIncrement, InsufficientBudget, RosterConstraint, ...).
package internal_error

// InternalError is the error type returned by every layer below the HTTP
// controllers. Err selects the HTTP status family; Kind is the stable,
// caller-facing error name from the engine's error taxonomy; Details holds
// structured fields a caller needs to render a precise message (min_next,
// remaining, ...) without the core doing any localization itself.
type InternalError struct {
	Message string
	Err     string
	Kind    string
	Details map[string]any
}

func (err *InternalError) Error() string {
	return err.Message
}

func NewNotFoundError(message string) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "not_found",
	}
}

func NewInternalServerError(message string) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "internal_server_error",
	}
}

func NewBadRequestError(message string) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "bad_request",
	}
}

// --- engine error taxonomy ---

func NewInvalidInputError(message string) *InternalError {
	return &InternalError{Message: message, Err: "bad_request", Kind: "InvalidInput"}
}

func NewAuctionNotFoundError(message string) *InternalError {
	return &InternalError{Message: message, Err: "not_found", Kind: "AuctionNotFound"}
}

func NewLotNotFoundError(message string) *InternalError {
	return &InternalError{Message: message, Err: "not_found", Kind: "LotNotFound"}
}

func NewTeamNotFoundError(message string) *InternalError {
	return &InternalError{Message: message, Err: "not_found", Kind: "TeamNotFound"}
}

func NewInvalidStateError(message string) *InternalError {
	return &InternalError{Message: message, Err: "invalid_state", Kind: "InvalidState"}
}

func NewAuctionNotRunningError(message string) *InternalError {
	return &InternalError{Message: message, Err: "invalid_state", Kind: "AuctionNotRunning"}
}

func NewLotNotActiveError(message string) *InternalError {
	return &InternalError{Message: message, Err: "invalid_state", Kind: "LotNotActive"}
}

func NewLotClosedError(message string) *InternalError {
	return &InternalError{Message: message, Err: "invalid_state", Kind: "LotClosed"}
}

func NewBelowIncrementError(message string, minNext int64) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "bad_request",
		Kind:    "BelowIncrement",
		Details: map[string]any{"min_next": minNext},
	}
}

func NewInsufficientBudgetError(message string, remaining int64) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "bad_request",
		Kind:    "InsufficientBudget",
		Details: map[string]any{"remaining": remaining},
	}
}

func NewSquadFullError(message string) *InternalError {
	return &InternalError{Message: message, Err: "bad_request", Kind: "SquadFull"}
}

func NewRosterConstraintError(message, reason string) *InternalError {
	return &InternalError{
		Message: message,
		Err:     "bad_request",
		Kind:    "RosterConstraint",
		Details: map[string]any{"reason": reason},
	}
}

func NewAlreadyLeadingError(message string) *InternalError {
	return &InternalError{Message: message, Err: "bad_request", Kind: "AlreadyLeading"}
}

func NewConflictError(message string) *InternalError {
	return &InternalError{Message: message, Err: "conflict", Kind: "Conflict"}
}

func NewSlowConsumerError(message string) *InternalError {
	return &InternalError{Message: message, Err: "conflict", Kind: "SlowConsumer"}
}

func NewUnavailableError(message string) *InternalError {
	return &InternalError{Message: message, Err: "unavailable", Kind: "Unavailable"}
}
