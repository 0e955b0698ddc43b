package main

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// FrameDecoder unwraps one captured frame down to an IPv4/TCP segment. The
// framing mode is fixed once per capture from the file's declared link type:
// Linux cooked captures get SLL framing, everything else defaults to Ethernet.
type FrameDecoder struct {
	first gopacket.LayerType
}

func NewFrameDecoder(link layers.LinkType) *FrameDecoder {
	first := layers.LayerTypeEthernet
	if link == layers.LinkTypeLinuxSLL {
		first = layers.LayerTypeLinuxSLL
	}
	return &FrameDecoder{first: first}
}

// Decode turns a RawFrame into at most one Segment and at most one ParseError.
// Both nil means the frame was valid but carried no IPv4/TCP payload and is
// skipped. A truncated frame always yields a ParseError; a Segment is still
// salvaged from the available bytes when the headers parse.
func (d *FrameDecoder) Decode(frame RawFrame) (*Segment, *ParseError) {
	truncated := frame.CI.CaptureLength != frame.CI.Length

	pkt := gopacket.NewPacket(frame.Data, d.first, gopacket.Default)
	seg := d.segmentFrom(pkt, frame, truncated)

	if truncated {
		perr := &ParseError{Frame: frame.Index, Kind: ErrKindTruncated, Cause: "captured length shorter than frame length"}
		if seg == nil {
			perr.Raw = frame.Data
		}
		return seg, perr
	}

	if seg != nil {
		return seg, nil
	}
	if el := pkt.ErrorLayer(); el != nil {
		return nil, &ParseError{Frame: frame.Index, Kind: ErrKindDecode, Cause: el.Error().Error()}
	}
	// Valid non-IPv4 or non-TCP traffic (ARP, IPv6, UDP, ...).
	return nil, nil
}

func (d *FrameDecoder) segmentFrom(pkt gopacket.Packet, frame RawFrame, truncated bool) *Segment {
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if ipLayer == nil || tcpLayer == nil {
		return nil
	}
	ip := ipLayer.(*layers.IPv4)
	tcp := tcpLayer.(*layers.TCP)

	return &Segment{
		Key: ConnectionKey{
			Src: Endpoint{Addr: ip.SrcIP.String(), Port: uint16(tcp.SrcPort)},
			Dst: Endpoint{Addr: ip.DstIP.String(), Port: uint16(tcp.DstPort)},
		},
		Seq:       tcp.Seq,
		Ack:       tcp.Ack,
		SYN:       tcp.SYN,
		ACK:       tcp.ACK,
		FIN:       tcp.FIN,
		RST:       tcp.RST,
		Payload:   tcp.Payload,
		Seen:      frame.CI.Timestamp,
		Frame:     frame.Index,
		Truncated: truncated,
	}
}
