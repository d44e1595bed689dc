package client

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Project-OSRM/osrm-contract-tests/servicedef"
)

const maxPayloadDump = 512

// ErrRouteFlatbuffersUnsupported is returned for a route response in the binary format, which
// the harness does not decode.
var ErrRouteFlatbuffersUnsupported = errors.New("decoding route responses in flatbuffers format is not supported")

// TransportError means that no answer was received for a query.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means that an answer was received but could not be decoded. It holds the raw
// payload for diagnosis.
type DecodeError struct {
	Format  string
	Payload []byte
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed %s response (%d bytes): %s\n%s", e.Format, len(e.Payload), e.Err, e.dump())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) dump() string {
	payload := e.Payload
	truncated := ""
	if len(payload) > maxPayloadDump {
		payload = payload[:maxPayloadDump]
		truncated = "\n..."
	}
	if e.Format == formatJSON {
		return string(payload) + truncated
	}
	return hex.Dump(payload) + truncated
}

// QueryFailure is a non-200 answer from the server. Scenarios that test invalid queries expect
// these, so it is not necessarily a test failure.
type QueryFailure struct {
	URL    string
	Status int
	Result servicedef.ErrorResult
}

func (f *QueryFailure) Error() string {
	return fmt.Sprintf("query %s failed with HTTP %d: %s", f.URL, f.Status, f.Result)
}

// AsQueryFailure returns the *QueryFailure in err's chain, if any.
func AsQueryFailure(err error) (*QueryFailure, bool) {
	var f *QueryFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
