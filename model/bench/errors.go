package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrNoObservations is returned when a series of observations is empty,
	// so that no iteration range can be determined.
	ErrNoObservations = errors.New("no observations")
)

// MissingDataError indicates that an expected artifact, or a record set
// within it, is absent or empty. It aborts the analysis of that replica.
type MissingDataError struct {
	Replica ReplicaID
	err     error
}

func NewMissingDataError(replica ReplicaID, err error) error {
	return MissingDataError{Replica: replica, err: err}
}

func NewMissingDataErrorf(replica ReplicaID, msg string, args ...interface{}) error {
	return MissingDataError{Replica: replica, err: fmt.Errorf(msg, args...)}
}

func (e MissingDataError) Error() string {
	return fmt.Sprintf("missing data for replica %d: %s", e.Replica, e.err.Error())
}

func (e MissingDataError) Unwrap() error { return e.err }

// IsMissingDataError returns whether err is a MissingDataError
func IsMissingDataError(err error) bool {
	var e MissingDataError
	return errors.As(err, &e)
}

// MalformedRecordError indicates that a single per-iteration or per-proposal
// record lacks required fields. The record is skipped and the analysis of
// the replica continues.
type MalformedRecordError struct {
	Replica ReplicaID
	// Key is the iteration or block hash of the record, as found in the artifact.
	Key string
	err error
}

func NewMalformedRecordErrorf(replica ReplicaID, key string, msg string, args ...interface{}) error {
	return MalformedRecordError{Replica: replica, Key: key, err: fmt.Errorf(msg, args...)}
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %q of replica %d: %s", e.Key, e.Replica, e.err.Error())
}

func (e MalformedRecordError) Unwrap() error { return e.err }

// IsMalformedRecordError returns whether err is a MalformedRecordError
func IsMalformedRecordError(err error) bool {
	var e MalformedRecordError
	return errors.As(err, &e)
}
