package main

import "bytes"

// CriterionKind enumerates the supported ad-hoc query predicates.
type CriterionKind int

const (
	// MatchKey matches the canonical connection key exactly.
	MatchKey CriterionKind = iota
	// MatchFwdPrefix matches flows whose forward byte sequence starts with
	// the given prefix.
	MatchFwdPrefix
	// MatchRevPrefix is MatchFwdPrefix for the reverse direction.
	MatchRevPrefix
	// MatchSrcPort matches the canonical source endpoint's port.
	MatchSrcPort
	// MatchDstPort matches the canonical destination endpoint's port.
	MatchDstPort
)

// Criterion is one predicate of a Find query. Only the field relevant to its
// Kind is consulted.
type Criterion struct {
	Kind   CriterionKind
	Key    ConnectionKey
	Prefix []byte
	Port   uint16
}

// matchers maps each criterion kind to its predicate. Adding a query
// capability means adding a kind above and one entry here; the matching loop
// never changes.
var matchers = map[CriterionKind]func(*Flow, Criterion) bool{
	MatchKey:       func(f *Flow, c Criterion) bool { return f.Key() == c.Key },
	MatchFwdPrefix: func(f *Flow, c Criterion) bool { return bytes.HasPrefix(f.FwdBytes(), c.Prefix) },
	MatchRevPrefix: func(f *Flow, c Criterion) bool { return bytes.HasPrefix(f.RevBytes(), c.Prefix) },
	MatchSrcPort:   func(f *Flow, c Criterion) bool { return f.Key().Src.Port == c.Port },
	MatchDstPort:   func(f *Flow, c Criterion) bool { return f.Key().Dst.Port == c.Port },
}

// Connections lists every known connection key in first-seen order.
func (r *Registry) Connections() []ConnectionKey {
	out := make([]ConnectionKey, len(r.order))
	copy(out, r.order)
	return out
}

// Find returns the first flow, in first-seen order, satisfying every given
// criterion, or nil when none matches. Intended for interactive inspection.
func (r *Registry) Find(criteria ...Criterion) *Flow {
	for _, key := range r.order {
		flow := r.flows[key]
		ok := true
		for _, c := range criteria {
			match, known := matchers[c.Kind]
			if !known || !match(flow, c) {
				ok = false
				break
			}
		}
		if ok {
			return flow
		}
	}
	return nil
}
