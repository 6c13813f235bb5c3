package tensor

import "fmt"

// writerHeld marks an exclusive borrow in Tensor.borrows.
const writerHeld = -1

// Borrow acquires a shared read borrow on the tensor and returns the func
// that releases it. It panics with ErrBorrowConflict if the tensor is
// exclusively borrowed.
//
// The engine is single-threaded; borrows exist to catch logic errors such
// as a node writing a tensor it is also reading, not to synchronize
// goroutines.
func (t *Tensor) Borrow() (release func()) {
	if t.borrows == writerHeld {
		panic(fmt.Errorf("%w: read borrow of %v tensor while it is being written", ErrBorrowConflict, t.shape))
	}
	t.borrows++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		t.borrows--
	}
}

// BorrowMut acquires the exclusive write borrow on the tensor and returns
// the func that releases it. It panics with ErrBorrowConflict if any other
// borrow is outstanding.
func (t *Tensor) BorrowMut() (release func()) {
	switch {
	case t.borrows == writerHeld:
		panic(fmt.Errorf("%w: %v tensor is already being written", ErrBorrowConflict, t.shape))
	case t.borrows > 0:
		panic(fmt.Errorf("%w: write borrow of %v tensor while %d reader(s) hold it", ErrBorrowConflict, t.shape, t.borrows))
	}
	t.borrows = writerHeld
	released := false
	return func() {
		if released {
			return
		}
		released = true
		t.borrows = 0
	}
}

// Borrowed reports whether any borrow is outstanding.
func (t *Tensor) Borrowed() bool {
	return t.borrows != 0
}

// ensureUnborrowed guards whole-buffer mutation from outside a graph node.
func (t *Tensor) ensureUnborrowed(op string) {
	if t.borrows != 0 {
		panic(fmt.Errorf("%w: %s on %v tensor with an outstanding borrow", ErrBorrowConflict, op, t.shape))
	}
}
