package link

import (
	"fmt"
	"hash/crc32"

	"github.com/jesse99/snet/internal/packet"
)

// MacAddress is a 6-byte 802.11 station address.
type MacAddress [6]byte

// residueMagic is the expected CRC-32 residue (after complementing and
// bit-reversing the standard IEEE checksum) of a correctly-FCS'd frame.
const residueMagic uint32 = 0xC704DD7B

// Mac80211DataFrame is the in-memory form of an IEEE 802.11 data-frame
// header (see 9.3.2 of the 2016 802.11 spec). Only the fields this model
// exercises are kept: no QoS/fragmentation/retry/power-management state.
type Mac80211DataFrame struct {
	SA    MacAddress // address the frame originated at
	TA    MacAddress // address the frame is being sent from
	RA    MacAddress // address the frame is being forwarded to
	DA    MacAddress // address the frame is being routed to
	BSSID MacAddress

	SeqNum uint16
}

// NewDataFrame derives SA/TA/RA/DA from a pair of already link-addressed
// endpoints (the internet layer zero-pads an IPv4 address into a MAC), with
// no access point: TA mirrors SA and RA mirrors DA.
func NewDataFrame(src, dst MacAddress, seqNum uint16) Mac80211DataFrame {
	return Mac80211DataFrame{
		SA:     src,
		TA:     src,
		RA:     dst,
		DA:     dst,
		BSSID:  MacAddress{},
		SeqNum: seqNum,
	}
}

// Push stages the 30-byte fixed header in front of p, then appends the
// 4-byte little-endian FCS (the IEEE CRC-32 over the frame as composed so
// far) to the tail.
func (f Mac80211DataFrame) Push(p *packet.Packet) {
	header := packet.NewHeaderCapacity(30)

	header.Push16(0b1000_1000_00000000) // frame control: data, no QoS/fragmentation bits set beyond subtype
	header.Push16(0)                    // duration/ID

	header.PushBytes(f.DA[:])    // address 1
	header.PushBytes(f.SA[:])    // address 2
	header.PushBytes(f.BSSID[:]) // address 3

	header.Push16(f.SeqNum << 4)           // sequence control
	header.Push16(0b0_11_0_0000_00000000) // QoS control

	p.PushHeader(header)

	crc := crc32.ChecksumIEEE(p.Bytes())
	fcs := []byte{byte(crc), byte(crc >> 8), byte(crc >> 16), byte(crc >> 24)}
	p.PushBackBytes(fcs)
}

// PopDataFrame removes a 30-byte 802.11 data header and its trailing 4-byte
// FCS from p, verifying the FCS first.
func PopDataFrame(p *packet.Packet) (Mac80211DataFrame, error) {
	crc := crc32.ChecksumIEEE(p.Bytes())
	residue := reverseBits32(^crc)
	if residue != residueMagic {
		return Mac80211DataFrame{}, fmt.Errorf("Checksum error")
	}

	frameControl := p.Pop16()
	if frameControl&0b11 != 0 {
		return Mac80211DataFrame{}, fmt.Errorf("Version isn't zero")
	}
	_ = p.Pop16() // duration/ID

	var addr1, addr2, addr3 MacAddress
	for i := range addr1 {
		addr1[i] = p.Pop8()
	}
	for i := range addr2 {
		addr2[i] = p.Pop8()
	}
	for i := range addr3 {
		addr3[i] = p.Pop8()
	}

	seqNum := p.Pop16() >> 4
	_ = p.Pop16() // QoS control

	p.PopBack8()
	p.PopBack8()
	p.PopBack8()
	p.PopBack8()

	return Mac80211DataFrame{
		SA:     addr2,
		TA:     addr2,
		RA:     addr1,
		DA:     addr1,
		BSSID:  addr3,
		SeqNum: seqNum,
	}, nil
}

// reverseBits32 reverses the bit order of v, used to translate between the
// standard reflected-IEEE CRC-32 convention and the raw-residue check the
// original model expresses its FCS verification in terms of.
func reverseBits32(v uint32) uint32 {
	var r uint32
	for i := 0; i < 32; i++ {
		if v&(1<<uint(i)) != 0 {
			r |= 1 << uint(31-i)
		}
	}
	return r
}
