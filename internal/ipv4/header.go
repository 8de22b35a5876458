// Package ipv4 implements the internet layer: the IPv4 header's wire
// encoding and the component that pushes/pops it between the transport and
// link layers.
package ipv4

import (
	"fmt"

	"github.com/jesse99/snet/internal/addrfam"
	"github.com/jesse99/snet/internal/ianaproto"
	"github.com/jesse99/snet/internal/packet"
)

// ECN is the explicit congestion notification field (RFC 3168), carried in
// the low 2 bits of the DSCP/ECN byte.
type ECN uint8

const (
	NotCapable ECN = 0
	Capable0   ECN = 1
	Capable1   ECN = 2
	Congested  ECN = 3
)

func (e ECN) String() string {
	switch e {
	case NotCapable:
		return "NotCapable"
	case Capable0:
		return "Capable0"
	case Capable1:
		return "Capable1"
	case Congested:
		return "Congested"
	default:
		return fmt.Sprintf("ECN(%d)", uint8(e))
	}
}

// Header is the 20-byte IPv4 header (RFC 791). Options are never supported:
// version/IHL is always 0x45.
type Header struct {
	Protocol ianaproto.Protocol

	SourceAddr addrfam.IPAddress
	DestAddr   addrfam.IPAddress

	// DSCP is the differentiated services code point (RFC 2474), must be < 64.
	DSCP uint8

	ECN ECN

	// TTL defaults to 255 (see New); the IPv4 component copies it from the
	// datagram's SocketOptions. No layer decrements it per hop.
	TTL uint8

	Identification uint16

	DontFragment  bool
	MoreFragments bool

	// FragmentOffset is the offset, in 8-byte units, of this fragment within
	// the original datagram. Must be < 8192 so it fits 13 bits.
	FragmentOffset uint16
}

// New returns a Header with TTL=255 and every fragmentation field zeroed,
// ready for a single-fragment datagram. Panics if protocol is RESERVED.
func New(protocol ianaproto.Protocol, source, dest addrfam.IPAddress) Header {
	if protocol.Byte() == 255 {
		panic("ipv4: protocol must not be RESERVED")
	}
	return Header{
		Protocol:       protocol,
		SourceAddr:     source,
		DestAddr:       dest,
		DSCP:           0,
		ECN:            NotCapable,
		TTL:            255,
		FragmentOffset: 0,
	}
}

// Push stages a 20-byte IPv4 header in front of p's current payload. The
// checksum is computed over the fully assembled header and written last.
func (h Header) Push(p *packet.Packet) {
	payloadLen := p.Len()
	header := packet.NewHeaderCapacity(20)

	header.Push8(0x45) // version 4, IHL 5 (no options)

	if h.DSCP >= 64 {
		panic("ipv4: DSCP must be < 64")
	}
	header.Push8(h.DSCP<<2 | uint8(h.ECN))

	totalLength := 20 + payloadLen
	if totalLength > 0xFFFF {
		panic("ipv4: total length does not fit in 16 bits")
	}
	header.Push16(uint16(totalLength))

	header.Push16(h.Identification)

	if h.FragmentOffset >= 8192 {
		panic("ipv4: fragment offset must be < 8192")
	}
	var flags uint16
	if h.MoreFragments {
		flags |= 1 << 15
	}
	if h.DontFragment {
		flags |= 1 << 14
	}
	header.Push16(flags | h.FragmentOffset)

	header.Push8(h.TTL)
	header.Push8(h.Protocol.Byte())

	header.Push16(0) // checksum placeholder

	src := h.SourceAddr.AsIPv4()
	header.PushBytes(src[:])
	dst := h.DestAddr.AsIPv4()
	header.PushBytes(dst[:])

	crc := header.Checksum()
	data := header.Bytes()
	data[10] = byte(crc >> 8)
	data[11] = byte(crc & 0xFF)

	p.PushHeader(header)
}

// Pop removes a 20-byte IPv4 header from the front of p, validating the
// checksum first and then every field, in the order described in the
// layer's specification.
func Pop(p *packet.Packet) (Header, error) {
	inLen := p.Len()
	if crc := p.Checksum(20); crc != 0 {
		return Header{}, fmt.Errorf("IPv4Header checksum error")
	}

	b := p.Pop8()
	version := b >> 4
	ihl := b & 0xF
	if version != 4 {
		return Header{}, fmt.Errorf("IPv4Header.version should be 4 not %d", version)
	}
	if ihl != 5 {
		return Header{}, fmt.Errorf("IPv4Header.IHL should be 5 not %d", ihl)
	}

	b = p.Pop8()
	dscp := b >> 2
	ecn := ECN(b & 0x3)

	totalLength := int(p.Pop16())
	if totalLength != inLen {
		return Header{}, fmt.Errorf("IPv4Header.total_length should be %d but is %d", inLen, totalLength)
	}

	identification := p.Pop16()

	hw := p.Pop16()
	moreFragments := hw&0x8000 != 0
	dontFragment := hw&0x4000 != 0
	reserved := hw&0x2000 != 0
	fragmentOffset := hw & 0x1FFF
	if reserved {
		return Header{}, fmt.Errorf("IPv4Header.flags has bit 0 set")
	}

	ttl := p.Pop8()
	protocolByte := p.Pop8()
	if protocolByte == 255 {
		return Header{}, fmt.Errorf("IPv4Header.protocol is using the RESERVED protocol (use one of the unassigned values instead for a custom protocol)")
	}
	protocol := ianaproto.FromByte(protocolByte)

	_ = p.Pop16() // checksum, already verified above

	source := addrfam.NewIPv4(p.Pop8(), p.Pop8(), p.Pop8(), p.Pop8())
	dest := addrfam.NewIPv4(p.Pop8(), p.Pop8(), p.Pop8(), p.Pop8())

	return Header{
		Protocol:       protocol,
		SourceAddr:     source,
		DestAddr:       dest,
		DSCP:           dscp,
		ECN:            ecn,
		TTL:            ttl,
		Identification: identification,
		DontFragment:   dontFragment,
		MoreFragments:  moreFragments,
		FragmentOffset: fragmentOffset,
	}, nil
}
