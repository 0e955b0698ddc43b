package main

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/require"
)

func testSeg(src string, sport uint16, dst string, dport uint16, payload string) *Segment {
	return &Segment{
		Key: ConnectionKey{
			Src: Endpoint{Addr: src, Port: sport},
			Dst: Endpoint{Addr: dst, Port: dport},
		},
		Payload: []byte(payload),
		Seen:    time.Now(),
	}
}

// ethTCPFrame serializes an Ethernet/IPv4/TCP frame carrying payload.
func ethTCPFrame(t *testing.T, src string, sport uint16, dst string, dport uint16, payload []byte) []byte {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	buf := serializeIPTCP(t, src, sport, dst, dport, payload, eth)
	return buf
}

// sllTCPFrame hand-crafts a Linux cooked header in front of an IPv4/TCP packet.
func sllTCPFrame(t *testing.T, src string, sport uint16, dst string, dport uint16, payload []byte) []byte {
	t.Helper()
	// packet type unicast, ARPHRD_ETHER, 6-byte link address, protocol IPv4
	sll := []byte{
		0x00, 0x00, 0x00, 0x01, 0x00, 0x06,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00,
		0x08, 0x00,
	}
	return append(sll, serializeIPTCP(t, src, sport, dst, dport, payload)...)
}

func serializeIPTCP(t *testing.T, src string, sport uint16, dst string, dport uint16, payload []byte, outer ...gopacket.SerializableLayer) []byte {
	t.Helper()
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.ParseIP(src),
		DstIP:    net.ParseIP(dst),
	}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(sport),
		DstPort: layers.TCPPort(dport),
		Seq:     1000,
		ACK:     true,
		Window:  65535,
	}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	all := append(append([]gopacket.SerializableLayer{}, outer...), ip, tcp, gopacket.Payload(payload))
	require.NoError(t, gopacket.SerializeLayers(buf, opts, all...))
	return buf.Bytes()
}

func arpFrame(t *testing.T) []byte {
	t.Helper()
	srcMAC := net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	eth := &layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := &layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   srcMAC,
		SourceProtAddress: net.ParseIP("10.0.0.1").To4(),
		DstHwAddress:      make([]byte, 6),
		DstProtAddress:    net.ParseIP("10.0.0.2").To4(),
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, arp))
	return buf.Bytes()
}

// garbledIPFrame claims an IPv4 payload but carries too few bytes to parse one.
func garbledIPFrame() []byte {
	return []byte{
		0x02, 0x00, 0x00, 0x00, 0x00, 0x02,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x00, // IPv4
		0x45, 0x00, 0x00, // cut off mid-header
	}
}

func rawFrame(index int, data []byte) RawFrame {
	return RawFrame{
		Index: index,
		CI: gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000, 0).Add(time.Duration(index) * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		},
		Data: data,
	}
}

// writeTruncatedPcap writes a one-record pcap whose record claims extra bytes
// beyond what was captured.
func writeTruncatedPcap(t *testing.T, w *bytes.Buffer, data []byte, extra int) {
	t.Helper()
	pw := pcapgo.NewWriter(w)
	require.NoError(t, pw.WriteFileHeader(65535, layers.LinkTypeEthernet))
	ci := gopacket.CaptureInfo{
		Timestamp:     time.Unix(1700000000, 0),
		CaptureLength: len(data),
		Length:        len(data) + extra,
	}
	require.NoError(t, pw.WritePacket(ci, data))
}

// buildPcap writes an in-memory pcap file from raw ethernet frames.
func buildPcap(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65535, layers.LinkTypeEthernet))
	for i, data := range frames {
		require.NoError(t, w.WritePacket(rawFrame(i, data).CI, data))
	}
	return buf.Bytes()
}
