// Package transport implements the UDP layer: the 8-byte header's wire
// encoding, including the real IPv4 pseudo-header checksum the original
// source left as a TODO, and the component that wraps/unwraps it between
// the application and internet layers.
package transport

import (
	"fmt"

	"github.com/jesse99/snet/internal/packet"
)

// udpProtocolNumber is IANA protocol 17 (UDP), used to build the IPv4
// pseudo-header regardless of what protocol number the carrying IPv4
// datagram declares.
const udpProtocolNumber = 0x11

// Header is the 8-byte UDP header (RFC 768).
type Header struct {
	SrcPort uint16
	DstPort uint16
}

// New returns a Header for the given ports.
func New(srcPort, dstPort uint16) Header {
	return Header{SrcPort: srcPort, DstPort: dstPort}
}

// Push stages an 8-byte UDP header in front of p's current payload. The
// checksum is computed over the IPv4 pseudo-header, the UDP header with a
// zeroed checksum field, and the payload, then written into header bytes
// 6-7. srcIP and dstIP must be 4-byte (IPv4) addresses; IPv6 is out of
// scope and panics.
func (h Header) Push(p *packet.Packet, srcIP, dstIP [4]byte) {
	payloadLen := p.Len()
	totalLen := 8 + payloadLen
	if totalLen > 0xFFFF {
		panic("udp: total length does not fit in 16 bits")
	}

	header := packet.NewHeaderCapacity(8)
	header.Push16(h.SrcPort)
	header.Push16(h.DstPort)
	header.Push16(uint16(totalLen))
	header.Push16(0) // checksum placeholder

	pseudo := packet.NewHeaderCapacity(12)
	pseudo.PushBytes(srcIP[:])
	pseudo.PushBytes(dstIP[:])
	pseudo.Push8(0)
	pseudo.Push8(udpProtocolNumber)
	pseudo.Push16(uint16(totalLen))

	acc := pseudo.StartChecksum(0)
	acc = header.StartChecksum(acc)
	crc := packet.FinishChecksum(p.Bytes(), acc)

	data := header.Bytes()
	data[6] = byte(crc >> 8)
	data[7] = byte(crc & 0xFF)

	p.PushHeader(header)
}

// Pop removes an 8-byte UDP header from the front of p. Checksum
// verification on receive is not performed in this model: a datagram whose
// checksum the sender computed incorrectly is indistinguishable here from
// one a lossy medium corrupted, and nothing downstream acts differently
// either way.
func Pop(p *packet.Packet) (Header, error) {
	inLen := p.Len()

	srcPort := p.Pop16()
	dstPort := p.Pop16()
	totalLength := int(p.Pop16())
	_ = p.Pop16() // checksum, not verified

	if totalLength != inLen {
		return Header{}, fmt.Errorf("UDPHeader.total_length should be %d but is %d", inLen, totalLength)
	}

	return Header{SrcPort: srcPort, DstPort: dstPort}, nil
}
