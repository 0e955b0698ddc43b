package main

import "fmt"

// ErrorKind classifies capture-time failures.
type ErrorKind int

const (
	// ErrKindDecode: header parsing failed at the link, IP or TCP layer.
	ErrKindDecode ErrorKind = iota
	// ErrKindTruncated: captured length shorter than the original frame length.
	ErrKindTruncated
	// ErrKindUnderrun: the capture source ended mid-record; the scan cannot
	// locate any further frames and halts.
	ErrKindUnderrun
	// ErrKindFlowParse: downstream HTTP extraction failed for one connection.
	ErrKindFlowParse
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindDecode:
		return "decode"
	case ErrKindTruncated:
		return "truncated"
	case ErrKindUnderrun:
		return "underrun"
	case ErrKindFlowParse:
		return "flow-parse"
	default:
		return "unknown"
	}
}

// ParseError records one non-fatal capture failure. Raw keeps the frame bytes
// only for truncation-category errors where no segment could be salvaged.
type ParseError struct {
	Frame int
	Kind  ErrorKind
	Cause string
	Raw   []byte
}

func (e ParseError) Error() string {
	return fmt.Sprintf("frame %d: %s: %s", e.Frame, e.Kind, e.Cause)
}

type ErrFlowFinished struct{}

func (ErrFlowFinished) Error() string { return "flow already finished" }

type ErrRegistryFinalized struct{}

func (ErrRegistryFinalized) Error() string { return "registry already finalized" }
