package errors

// Generic root errors. Codes 2-99 are reserved for them.
var (
	// ErrInternal is returned in place of errors that must not leak any
	// details to the client, for example a recovered panic.
	ErrInternal = Register(111, "internal")

	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled, for example a caller that does not hold
	// the role required by an operation.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever a message is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a model is invalid and cannot be
	// used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrAmount stands for invalid amount of whatever
	ErrAmount = Register(13, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when a storage operation fails.
	ErrDatabase = Register(17, "database")

	// ErrIteratorDone is returned by an iterator that has no more elements.
	ErrIteratorDone = Register(18, "iterator done")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Custody root errors. Codes 100-199 are used by the custody primitives.
var (
	// ErrAlreadyInitialized is returned when a start or lock operation is
	// called on an instance that is not empty.
	ErrAlreadyInitialized = Register(100, "already initialized")

	// ErrThresholdNotMet is returned when an execution is requested for a
	// proposal that did not collect enough votes.
	ErrThresholdNotMet = Register(101, "threshold not met")

	// ErrPrematureCondition is returned when a height based condition is
	// not yet satisfied.
	ErrPrematureCondition = Register(102, "premature condition")

	// ErrPastUnlockHeight is returned when a lock is requested with an
	// unlock height that is not in the future.
	ErrPastUnlockHeight = Register(103, "unlock height in the past")

	// ErrInvalidProof is returned when a presented value does not match the
	// commitment.
	ErrInvalidProof = Register(104, "invalid proof")

	// ErrAlreadyVoted is returned when a member votes on the same proposal
	// more than once.
	ErrAlreadyVoted = Register(105, "already voted")

	// ErrAlreadyExecuted is returned when an executed proposal is
	// addressed again.
	ErrAlreadyExecuted = Register(106, "already executed")

	// ErrUnknownProposal is returned for a proposal ID that was never
	// created.
	ErrUnknownProposal = Register(107, "unknown proposal")

	// ErrInsufficientFunds is returned when an account does not hold the
	// amount required by a transfer.
	ErrInsufficientFunds = Register(108, "insufficient funds")

	// ErrNotLocked is returned when an operation requires an instance in
	// the locked state.
	ErrNotLocked = Register(109, "not locked")

	// ErrInvalidThreshold is returned when the number of required votes is
	// zero or greater than the number of members.
	ErrInvalidThreshold = Register(110, "invalid threshold")
)
