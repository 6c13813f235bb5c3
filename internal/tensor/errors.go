package tensor

import "errors"

// Fatal conditions raised by the engine.
//
// Operators and tensors never return these; they panic with an error that
// wraps one of them, so a caller that recovers can classify the failure
// with errors.Is.
var (
	// ErrShapeMismatch reports inputs or outputs whose shapes violate an
	// operator's contract (including unsupported ranks).
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrLengthMismatch reports a raw buffer assignment whose length differs
	// from the tensor's size.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNoGradient reports a backward invocation on an operator that
	// defines no gradient (argmax, one-hot).
	ErrNoGradient = errors.New("operator has no gradient")

	// ErrClassOutOfRange reports a one-hot label outside [0, numClasses).
	ErrClassOutOfRange = errors.New("class index out of range")

	// ErrBorrowConflict reports a violation of the single-writer /
	// many-readers discipline on a tensor.
	ErrBorrowConflict = errors.New("borrow conflict")

	// ErrAlreadyProduced reports a second producer linked to a tensor.
	ErrAlreadyProduced = errors.New("tensor already has a producer")

	// ErrIndexOutOfRange reports an index outside a container's bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
)
