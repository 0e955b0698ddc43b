package main

// Registry maps unordered endpoint pairs to their Flow. It is owned by a
// single scan invocation, populated during the scan and frozen by
// FinalizeAll before being handed downstream.
type Registry struct {
	flows     map[ConnectionKey]*Flow
	order     []ConnectionKey
	errors    []ParseError
	finalized bool
}

func NewRegistry() *Registry {
	return &Registry{flows: make(map[ConnectionKey]*Flow)}
}

// Register files the segment under its logical connection. The lookup probes
// both orderings of the segment's endpoint pair, so a connection is
// represented exactly once no matter which side was observed first. The first
// observation fixes the canonical forward direction for the life of the flow.
func (r *Registry) Register(seg *Segment) error {
	if r.finalized {
		return ErrRegistryFinalized{}
	}
	key := seg.Key
	if flow, ok := r.flows[key]; ok {
		return flow.add(seg, DirForward)
	}
	if flow, ok := r.flows[key.Reverse()]; ok {
		return flow.add(seg, DirReverse)
	}
	flow := newFlow(key)
	r.flows[key] = flow
	r.order = append(r.order, key)
	return flow.add(seg, DirForward)
}

// RecordError appends a capture-time failure to the scan's error list.
func (r *Registry) RecordError(perr ParseError) {
	r.errors = append(r.errors, perr)
}

// Errors returns the parse failures accumulated during the scan, in
// encounter order.
func (r *Registry) Errors() []ParseError { return r.errors }

// FinalizeAll finishes every flow exactly once and freezes the registry.
func (r *Registry) FinalizeAll() {
	if r.finalized {
		return
	}
	r.finalized = true
	for _, key := range r.order {
		_ = r.flows[key].Finish()
	}
}

// Finalized reports whether FinalizeAll has run.
func (r *Registry) Finalized() bool { return r.finalized }

// Flows returns every flow in first-seen order.
func (r *Registry) Flows() []*Flow {
	out := make([]*Flow, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.flows[key])
	}
	return out
}

// Len returns the number of distinct connections.
func (r *Registry) Len() int { return len(r.order) }
