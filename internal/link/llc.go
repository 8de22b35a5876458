// Package link implements the link layer: the LLC/SNAP header that carries
// an EtherType over an 802.2 medium, the IEEE 802.11 MAC data frame, and the
// LinkInfo descriptor the internet layer receives alongside a popped frame.
package link

import (
	"fmt"

	"github.com/jesse99/snet/internal/ethertype"
	"github.com/jesse99/snet/internal/packet"
)

// LlcHeader is the 8-byte SNAP-extended LLC header (RFC 1042): a fixed
// DSAP/SSAP/control preamble, a zero OUI, and a 16-bit EtherType acting as
// the SNAP protocol id.
type LlcHeader struct {
	EtherType ethertype.EtherType
}

// WithIPv4 returns an LlcHeader tagging its payload as an IPv4 datagram.
func WithIPv4() LlcHeader {
	return LlcHeader{EtherType: ethertype.IPv4}
}

// Push stages the 8-byte LLC/SNAP header in front of p's current payload.
func (h LlcHeader) Push(p *packet.Packet) {
	header := packet.NewHeaderCapacity(8)
	header.Push8(170) // DSAP: SNAP
	header.Push8(170) // SSAP: SNAP
	header.Push8(3)   // control: connectionless (UI)
	header.Push8(0)   // OUI byte 0
	header.Push8(0)   // OUI byte 1
	header.Push8(0)   // OUI byte 2
	header.Push16(h.EtherType.Uint16())
	p.PushHeader(header)
}

// PopLlc removes an 8-byte LLC/SNAP header from the front of p, validating
// every constant byte in turn.
func PopLlc(p *packet.Packet) (LlcHeader, error) {
	if dsap := p.Pop8(); dsap != 170 {
		return LlcHeader{}, fmt.Errorf("DSAP isn't 170")
	}
	if ssap := p.Pop8(); ssap != 170 {
		return LlcHeader{}, fmt.Errorf("SSAP isn't 170")
	}
	if control := p.Pop8(); control != 3 {
		return LlcHeader{}, fmt.Errorf("CONTROL isn't 3")
	}
	oui0, oui1, oui2 := p.Pop8(), p.Pop8(), p.Pop8()
	if oui0 != 0 || oui1 != 0 || oui2 != 0 {
		return LlcHeader{}, fmt.Errorf("OUI isn't 0")
	}

	et, err := ethertype.FromUint16(p.Pop16())
	if err != nil {
		return LlcHeader{}, err
	}
	return LlcHeader{EtherType: et}, nil
}
