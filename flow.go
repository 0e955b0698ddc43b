package main

import "time"

// Flow accumulates the ordered per-direction segment sequences of one TCP
// connection. The forward direction is whichever endpoint ordering was
// observed first; see Registry.Register.
type Flow struct {
	key  ConnectionKey
	fwd  []*Segment
	rev  []*Segment
	done bool
}

func newFlow(key ConnectionKey) *Flow {
	return &Flow{key: key}
}

// Key returns the canonical connection identity.
func (f *Flow) Key() ConnectionKey { return f.key }

// Done reports whether the flow has been finalized.
func (f *Flow) Done() bool { return f.done }

// add appends a segment to the direction it was observed in. Appending to a
// finished flow is an error, never a silent drop.
func (f *Flow) add(seg *Segment, dir Direction) error {
	if f.done {
		return ErrFlowFinished{}
	}
	if dir == DirForward {
		f.fwd = append(f.fwd, seg)
	} else {
		f.rev = append(f.rev, seg)
	}
	return nil
}

// Finish marks the flow complete. A second call is an error.
func (f *Flow) Finish() error {
	if f.done {
		return ErrFlowFinished{}
	}
	f.done = true
	return nil
}

// Fwd and Rev expose the directional segment sequences in capture order.
func (f *Flow) Fwd() []*Segment { return f.fwd }
func (f *Flow) Rev() []*Segment { return f.rev }

// FwdBytes concatenates the forward-direction payloads in capture order.
func (f *Flow) FwdBytes() []byte { return concatPayloads(f.fwd) }

// RevBytes concatenates the reverse-direction payloads in capture order.
func (f *Flow) RevBytes() []byte { return concatPayloads(f.rev) }

func concatPayloads(segs []*Segment) []byte {
	n := 0
	for _, s := range segs {
		n += len(s.Payload)
	}
	out := make([]byte, 0, n)
	for _, s := range segs {
		out = append(out, s.Payload...)
	}
	return out
}

// FirstSeen returns the earliest capture timestamp across both directions,
// or the zero time for an empty flow.
func (f *Flow) FirstSeen() time.Time {
	var first time.Time
	for _, segs := range [][]*Segment{f.fwd, f.rev} {
		for _, s := range segs {
			if first.IsZero() || s.Seen.Before(first) {
				first = s.Seen
			}
		}
	}
	return first
}

// LastSeen returns the latest capture timestamp across both directions.
func (f *Flow) LastSeen() time.Time {
	var last time.Time
	for _, segs := range [][]*Segment{f.fwd, f.rev} {
		for _, s := range segs {
			if s.Seen.After(last) {
				last = s.Seen
			}
		}
	}
	return last
}
