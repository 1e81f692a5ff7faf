package domain

import (
	"errors"
	"fmt"
)

// ConnectivityError reports that the Precision Platform endpoint could not be
// reached: network failure, timeout or a non-2xx status. The caller decides
// whether to retry or surface "data unavailable".
type ConnectivityError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Err      error
}

func (e *ConnectivityError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("precision endpoint %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("precision endpoint %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// MalformedResponseError reports that a response body did not decode into the
// expected FieldReport shape. Fatal for the fetch cycle: no partial report is
// ever produced.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed precision response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed precision response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsConnectivity reports whether err is (or wraps) a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// IsMalformedResponse reports whether err is (or wraps) a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var me *MalformedResponseError
	return errors.As(err, &me)
}
