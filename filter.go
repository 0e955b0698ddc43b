package main

// PortFilter drops segments whose endpoints match a set of well-known ports
// that carry traffic the HTTP stage cannot parse. Filtering runs before
// registration so excluded traffic never allocates a Flow.
type PortFilter struct {
	excluded map[uint16]struct{}
}

// DefaultPortFilter excludes TLS (443) plus the proprietary push-service
// ports 5223 and 5228, whose payload is not HTTP.
func DefaultPortFilter() *PortFilter {
	f := &PortFilter{excluded: make(map[uint16]struct{})}
	f.Exclude(443, 5223, 5228)
	return f
}

// Exclude adds ports to the exclusion set.
func (f *PortFilter) Exclude(ports ...uint16) {
	for _, p := range ports {
		f.excluded[p] = struct{}{}
	}
}

// Drop reports whether the segment touches an excluded port on either side.
func (f *PortFilter) Drop(seg *Segment) bool {
	if _, ok := f.excluded[seg.Key.Src.Port]; ok {
		return true
	}
	_, ok := f.excluded[seg.Key.Dst.Port]
	return ok
}
