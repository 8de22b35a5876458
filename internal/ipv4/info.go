package ipv4

import (
	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/ianaproto"
)

// Info is the descriptor carried alongside a Packet across every
// app/transport/internet boundary: which protocol it belongs to and who it
// is from and to. Precondition: Protocol must not be RESERVED.
type Info struct {
	Protocol   ianaproto.Protocol
	SourceAddr addrfam.IPAddress
	DestAddr   addrfam.IPAddress
}

// NewInfo panics if protocol is RESERVED, matching the precondition any
// handler building an Info is expected to uphold.
func NewInfo(protocol ianaproto.Protocol, source, dest addrfam.IPAddress) Info {
	if protocol.Byte() == 255 {
		panic("ipv4: Info.Protocol must not be RESERVED")
	}
	return Info{Protocol: protocol, SourceAddr: source, DestAddr: dest}
}

// QoS is the 802.11e/EDCA access-category tag a socket requests from the
// transport layer. The numeric values are priority codepoints, not a simple
// ordinal ranking. No layer reads it: the MAC writes a fixed QoS control
// field and does no queueing.
type QoS uint8

const (
	BestEffort QoS = 0
	Background QoS = 32
	Video      QoS = 128
	Voice      QoS = 192
)

func (q QoS) String() string {
	switch q {
	case BestEffort:
		return "BestEffort"
	case Background:
		return "Background"
	case Video:
		return "Video"
	case Voice:
		return "Voice"
	default:
		return "QoS(unknown)"
	}
}

// SocketOptions is the set of per-datagram choices a transport-layer socket
// hands down to the internet layer.
type SocketOptions struct {
	QoS QoS

	// TTL defaults to 255. Use 1 for multicast.
	TTL uint8

	DontFragment bool
}

// DefaultSocketOptions returns the unicast defaults: BestEffort, TTL 255,
// fragmentation allowed.
func DefaultSocketOptions() SocketOptions {
	return SocketOptions{QoS: BestEffort, TTL: 255, DontFragment: false}
}

// LinkInfo is the descriptor the link layer hands up to the internet layer
// alongside a received Packet: the EtherType that selected this handler and
// the link-layer addresses the frame carried.
type LinkInfo struct {
	EtherType uint16
	SourceMAC [6]byte
	DestMAC   [6]byte
}
