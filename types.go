package main

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
)

// Direction enumerates the two physical data directions of a connection.
type Direction string

const (
	DirForward Direction = "fwd"
	DirReverse Direction = "rev"
)

// Endpoint identifies one side of a TCP connection.
type Endpoint struct {
	Addr string
	Port uint16
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Addr, e.Port)
}

// ConnectionKey is the endpoint pair of a connection, ordered as first observed.
// Lookup treats the pair as unordered; see Registry.Register.
type ConnectionKey struct {
	Src Endpoint
	Dst Endpoint
}

// Reverse returns the key with its endpoints swapped.
func (k ConnectionKey) Reverse() ConnectionKey {
	return ConnectionKey{Src: k.Dst, Dst: k.Src}
}

func (k ConnectionKey) String() string {
	return fmt.Sprintf("%s <-> %s", k.Src, k.Dst)
}

// RawFrame is one captured link-layer record plus its capture metadata.
type RawFrame struct {
	Index int
	CI    gopacket.CaptureInfo
	Data  []byte
}

// Segment is the decoded unit derived from one RawFrame: an IPv4/TCP packet
// reduced to the fields the demultiplexer and downstream stages need.
type Segment struct {
	Key     ConnectionKey
	Seq     uint32
	Ack     uint32
	SYN     bool
	ACK     bool
	FIN     bool
	RST     bool
	Payload []byte
	Seen    time.Time
	Frame   int
	// Truncated marks segments recovered from a frame whose captured length
	// was shorter than its original length.
	Truncated bool
}
