package transform

import "fmt"

// OrderingError reports an inverse invoked on a transform whose record is
// not at the top of the relevant key's ledger, including calling inverse on
// a transform that was never applied. It indicates a program-logic bug and
// is never recovered silently.
type OrderingError struct {
	Transform string // name of the transform whose inverse was called
	Key       string // the violated key
	Found     string // tag found at the top of the ledger, "" if empty
}

func (e *OrderingError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("inverse of %s out of order for key %q: ledger is empty", e.Transform, e.Key)
	}
	return fmt.Sprintf("inverse of %s out of order for key %q: top of ledger is %s", e.Transform, e.Key, e.Found)
}

// MissingKeyError reports a configured key absent from a sample during
// apply or inverse. Inside missing-key tolerance mode the condition is
// skipped instead of raised.
type MissingKeyError struct {
	Transform string
	Key       string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: key %q missing from sample", e.Transform, e.Key)
}

// BatchMismatchError reports a batched sample whose per-key batch
// dimension sizes disagree. It indicates an upstream collation bug.
type BatchMismatchError struct {
	Key  string
	Want int
	Got  int
}

func (e *BatchMismatchError) Error() string {
	return fmt.Sprintf("batch size mismatch at key %q: got %d, want %d", e.Key, e.Got, e.Want)
}
