// Package packet implements the byte-buffer model that every protocol layer
// in snet pushes headers onto and pops headers off of: Packet, the mutable
// carrier that flows up and down the stack, Header, the staging buffer used
// to assemble a layer's header before it is pushed onto a Packet, and the
// Internet checksum (RFC 1071) that threads through IPv4 and UDP.
package packet

import (
	"fmt"
	"strings"
)

const mixedPushPop = "mixing pushs and pops isn't supported"

// Packet is a byte sequence sent down the network stack, over a wire or the
// air, and back up the network stack.
//
// A Packet grows from the front (PushHeader, used by descending layers) and
// from the back (PushBytes, used by an application staging a payload). Once
// any byte has been popped, from either end, no further push is permitted —
// mixing push and pop on one Packet is a programmer error and panics.
type Packet struct {
	name     string
	id       string
	payload  []byte
	front    int // bytes popped from the front
	tailTrim int // bytes popped from the back
}

// New creates a Packet with the given display name and advisory id. Both
// must be non-empty.
func New(name, id string) *Packet {
	if name == "" {
		panic("packet name must not be empty")
	}
	if id == "" {
		panic("packet id must not be empty")
	}
	return &Packet{name: name, id: id, payload: make([]byte, 0, 32)}
}

// FormatID builds the conventional "#>C.N" packet id: C is the originating
// component's id, N a counter the caller maintains. The format is purely
// advisory metadata for logging and debugging; nothing in this module uses
// it as a lookup key.
func FormatID(componentID int64, counter uint64) string {
	return fmt.Sprintf("#>%d.%d", componentID, counter)
}

// Name returns the packet's arbitrary display name, e.g. "ICMP Ping".
func (p *Packet) Name() string {
	return p.name
}

// ID returns the packet's advisory identifier, e.g. "#>12.56".
func (p *Packet) ID() string {
	return p.id
}

// IsEmpty reports whether all of the payload has been popped off.
func (p *Packet) IsEmpty() bool {
	return p.Len() == 0
}

// Len returns the number of bytes remaining between the front and back
// cursors.
func (p *Packet) Len() int {
	return len(p.payload) - p.tailTrim - p.front
}

// PushHeader prepends header's bytes in order: the first byte of header
// becomes the new byte 0 of the packet. Panics if any pop has already
// occurred on this packet.
func (p *Packet) PushHeader(header *Header) {
	if p.front != 0 || p.tailTrim != 0 {
		panic(mixedPushPop)
	}
	buf := make([]byte, 0, len(header.data)+len(p.payload))
	buf = append(buf, header.data...)
	buf = append(buf, p.payload...)
	p.payload = buf
}

// PushBytes appends data to the tail of the packet. Apps use this to attach
// a payload before handing the packet down the stack.
func (p *Packet) PushBytes(data []byte) {
	if p.front != 0 || p.tailTrim != 0 {
		panic(mixedPushPop)
	}
	p.payload = append(p.payload, data...)
}

// PushBackBytes is an alias for PushBytes: both grow the packet from the
// tail. The name mirrors PopBack8 so the two growth/shrink directions read
// symmetrically at call sites.
func (p *Packet) PushBackBytes(data []byte) {
	p.PushBytes(data)
}

// Pop8 removes one byte from the front of the payload, advancing the front
// cursor.
func (p *Packet) Pop8() uint8 {
	if p.Len() <= 0 {
		panic("pop8 on an empty packet")
	}
	b := p.payload[p.front]
	p.front++
	return b
}

// Pop16 removes two bytes from the front in network byte order.
func (p *Packet) Pop16() uint16 {
	b0 := uint16(p.Pop8())
	b1 := uint16(p.Pop8())
	return b0<<8 | b1
}

// Pop32 removes four bytes from the front in network byte order.
func (p *Packet) Pop32() uint32 {
	b0 := uint32(p.Pop8())
	b1 := uint32(p.Pop8())
	b2 := uint32(p.Pop8())
	b3 := uint32(p.Pop8())
	return b0<<24 | b1<<16 | b2<<8 | b3
}

// PopBytes removes and returns a copy of the next n bytes from the front.
func (p *Packet) PopBytes(n int) []byte {
	result := make([]byte, n)
	for i := range result {
		result[i] = p.Pop8()
	}
	return result
}

// PopBack8 removes one byte from the tail of the payload, e.g. to strip the
// 802.11 FCS after verifying it.
func (p *Packet) PopBack8() uint8 {
	if p.Len() <= 0 {
		panic("popBack8 on an empty packet")
	}
	p.tailTrim++
	return p.payload[len(p.payload)-p.tailTrim]
}

// Checksum computes the Internet checksum of the length bytes starting at
// the front cursor.
func (p *Packet) Checksum(length int) uint16 {
	start := p.front
	return Checksum(p.payload[start : start+length])
}

// Bytes returns the visible payload, from the front cursor to the back
// cursor, without consuming it. Callers must not retain the slice across a
// subsequent push or pop.
func (p *Packet) Bytes() []byte {
	return p.payload[p.front : len(p.payload)-p.tailTrim]
}

// Clone returns an independent copy of p: same name, id, and visible bytes,
// with its own front/tail cursors. Used by fan-out points (the wireless
// medium's broadcast) where multiple receivers each pop their own copy of
// what was logically one transmission.
func (p *Packet) Clone() *Packet {
	buf := make([]byte, len(p.payload))
	copy(buf, p.payload)
	return &Packet{name: p.name, id: p.id, payload: buf, front: p.front, tailTrim: p.tailTrim}
}

// String renders the packet's name, id, and remaining bytes as hex, for
// logging.
func (p *Packet) String() string {
	var b strings.Builder
	b.WriteString(p.name)
	b.WriteByte(' ')
	b.WriteString(p.id)
	for _, v := range p.Bytes() {
		fmt.Fprintf(&b, " %02X", v)
	}
	return b.String()
}

// Header stages bytes that will be prepended to a Packet in one
// PushHeader call. Unlike Packet, a Header only grows from the back; its
// lifecycle ends at the push.
type Header struct {
	data []byte
}

// NewHeader returns an empty Header with a small default capacity.
func NewHeader() *Header {
	return &Header{data: make([]byte, 0, 20)}
}

// NewHeaderCapacity returns an empty Header pre-sized for capacity bytes.
func NewHeaderCapacity(capacity int) *Header {
	return &Header{data: make([]byte, 0, capacity)}
}

// Push8 appends one byte.
func (h *Header) Push8(v uint8) {
	h.data = append(h.data, v)
}

// Push16 converts v to network byte order and appends it.
func (h *Header) Push16(v uint16) {
	h.data = append(h.data, byte(v>>8), byte(v))
}

// Push32 converts v to network byte order and appends it.
func (h *Header) Push32(v uint32) {
	h.data = append(h.data, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// PushBytes appends data verbatim.
func (h *Header) PushBytes(data []byte) {
	h.data = append(h.data, data...)
}

// Len returns the number of bytes staged so far.
func (h *Header) Len() int {
	return len(h.data)
}

// Bytes returns the staged bytes.
func (h *Header) Bytes() []byte {
	return h.data
}

// Checksum computes the Internet checksum over the entire staged buffer.
func (h *Header) Checksum() uint16 {
	return Checksum(h.data)
}

// StartChecksum accumulates this header's bytes into a running 32-bit
// checksum accumulator, for composition with other buffers (see
// StartChecksum / FinishChecksum at package scope).
func (h *Header) StartChecksum(initial uint32) uint32 {
	return StartChecksum(h.data, initial)
}

// String renders the staged bytes as hex, for logging.
func (h *Header) String() string {
	var b strings.Builder
	for _, v := range h.data {
		fmt.Fprintf(&b, "%02X ", v)
	}
	return b.String()
}
