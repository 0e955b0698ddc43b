package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/pkg/errors"
)

// ScanStats accounts for every frame read from the capture. Each frame lands
// in exactly one of Registered, Filtered, Skipped or Failed; Truncated counts
// frames that additionally produced a truncation error, whether or not a
// segment was salvaged.
type ScanStats struct {
	Frames     int
	Registered int
	Filtered   int
	Skipped    int
	Failed     int
	Truncated  int
}

// Scanner drives the read loop: decode, filter and register every frame of
// one capture, collecting non-fatal errors along the way.
type Scanner struct {
	filter   *PortFilter
	log      Logger
	linkType *layers.LinkType
}

func NewScanner(filter *PortFilter, log Logger) *Scanner {
	if filter == nil {
		filter = DefaultPortFilter()
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Scanner{filter: filter, log: log}
}

// OverrideLinkType forces the framing mode instead of trusting the capture
// header. Unknown names are ignored.
func (s *Scanner) OverrideLinkType(name string) {
	if lt, ok := parseLinkTypeOverride(name); ok {
		s.linkType = &lt
	}
}

// ScanFile opens a pcap file and scans it to exhaustion. Failure to open or
// recognize the file is the only error surfaced to the caller; per-frame
// problems are recorded in the returned registry instead.
func (s *Scanner) ScanFile(ctx context.Context, path string) (*Registry, ScanStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ScanStats{}, errors.Wrap(err, "open capture")
	}
	defer f.Close()
	return s.Scan(ctx, f)
}

// Scan reads pcap records from r until end of input, an unrecoverable
// truncation of the record stream, or context cancellation. Whatever state
// exists at that point is finalized and returned; the registry carries the
// accumulated per-frame errors.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) (*Registry, ScanStats, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, ScanStats{}, errors.Wrap(err, "read capture header")
	}

	linkType := pr.LinkType()
	if s.linkType != nil {
		linkType = *s.linkType
	}
	decoder := NewFrameDecoder(linkType)
	reg := NewRegistry()
	stats := ScanStats{}
	defer reg.FinalizeAll()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("scan cancelled after %d frames", stats.Frames)
			break
		}

		data, ci, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			// The record stream is desynchronized; no further frame can be
			// located reliably. Halt here, keep everything built so far.
			stats.Frames++
			stats.Failed++
			reg.RecordError(ParseError{Frame: index, Kind: ErrKindUnderrun, Cause: err.Error()})
			s.log.Warnf("capture ended mid-record at frame %d: %v", index, err)
			break
		}
		stats.Frames++

		s.processFrame(RawFrame{Index: index, CI: ci, Data: data}, decoder, reg, &stats)
	}

	return reg, stats, nil
}

func (s *Scanner) processFrame(frame RawFrame, decoder *FrameDecoder, reg *Registry, stats *ScanStats) {
	seg, perr := decoder.Decode(frame)
	if perr != nil {
		reg.RecordError(*perr)
		if perr.Kind == ErrKindTruncated {
			stats.Truncated++
			s.log.Warnf("discarding incomplete frame %d", frame.Index)
		} else {
			s.log.Warnf("frame %d: %s", frame.Index, perr.Cause)
		}
	}
	switch {
	case seg == nil && perr == nil:
		stats.Skipped++
	case seg == nil:
		stats.Failed++
	case s.filter.Drop(seg):
		stats.Filtered++
		s.log.Debugf("frame %d filtered: %s", frame.Index, seg.Key)
	default:
		if err := reg.Register(seg); err != nil {
			stats.Failed++
			reg.RecordError(ParseError{Frame: frame.Index, Kind: ErrKindDecode, Cause: err.Error()})
			return
		}
		stats.Registered++
	}
}

// parseLinkTypeOverride maps a config string to a link type; unknown or empty
// strings return false so the capture header's declaration stays in effect.
func parseLinkTypeOverride(s string) (layers.LinkType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ethernet":
		return layers.LinkTypeEthernet, true
	case "linux-sll", "sll", "cooked":
		return layers.LinkTypeLinuxSLL, true
	default:
		return 0, false
	}
}
