// Package ianaproto implements the IPv4/IPv6 next-header Protocol
// enumeration: the IANA-assigned values 0 through 142, the reserved
// EXPERIMENTAL1/EXPERIMENTAL2/RESERVED values at the top of the byte range,
// and an open Custom band for the currently-unassigned values in between.
//
// The original source this package replaces converted a raw byte to the enum
// via an unsafe bit-reinterpretation cast. That only works because Rust's
// repr happens to line the discriminants up with the byte value, and it
// produces undefined behavior for any byte the enum doesn't define. Protocol
// instead uses a total lookup table: every one of the 256 possible byte
// values produces a defined Protocol.
package ianaproto

import "fmt"

// Protocol is an IANA-assigned IPv4/IPv6 next-header value, or a Custom
// value reserved for local experimentation.
type Protocol struct {
	value  uint8
	custom bool
}

// Standard protocol numbers (https://www.iana.org/assignments/protocol-numbers).
var (
	HOPOPT             = Protocol{value: 0}
	ICMP               = Protocol{value: 1}
	IGMP               = Protocol{value: 2}
	GGP                = Protocol{value: 3}
	IPV4               = Protocol{value: 4}
	ST                 = Protocol{value: 5}
	TCP                = Protocol{value: 6}
	CBT                = Protocol{value: 7}
	EGP                = Protocol{value: 8}
	IGP                = Protocol{value: 9}
	BBN_RCC_MON        = Protocol{value: 10}
	NVP_II             = Protocol{value: 11}
	PUP                = Protocol{value: 12}
	ARGUS              = Protocol{value: 13}
	EMCON              = Protocol{value: 14}
	XNET               = Protocol{value: 15}
	CHAOS              = Protocol{value: 16}
	UDP                = Protocol{value: 17}
	MUX                = Protocol{value: 18}
	DCN_MEAS           = Protocol{value: 19}
	HMP                = Protocol{value: 20}
	PRM                = Protocol{value: 21}
	XNS_IDP            = Protocol{value: 22}
	TRUNK_1            = Protocol{value: 23}
	TRUNK_2            = Protocol{value: 24}
	LEAF_1             = Protocol{value: 25}
	LEAF_2             = Protocol{value: 26}
	RDP                = Protocol{value: 27}
	IRTP               = Protocol{value: 28}
	ISO_TP4            = Protocol{value: 29}
	NETBLT             = Protocol{value: 30}
	MFE_NSP            = Protocol{value: 31}
	MERIT_INP          = Protocol{value: 32}
	DCCP               = Protocol{value: 33}
	THREE_PC           = Protocol{value: 34}
	IDPR               = Protocol{value: 35}
	XTP                = Protocol{value: 36}
	DDP                = Protocol{value: 37}
	IDPR_CMTP          = Protocol{value: 38}
	TPPP               = Protocol{value: 39}
	IL                 = Protocol{value: 40}
	IPV6               = Protocol{value: 41}
	SDRP               = Protocol{value: 42}
	IPV6_ROUTE         = Protocol{value: 43}
	IPV6_FRAG          = Protocol{value: 44}
	IDRP               = Protocol{value: 45}
	RSVP               = Protocol{value: 46}
	GRE                = Protocol{value: 47}
	DSR                = Protocol{value: 48}
	BNA                = Protocol{value: 49}
	ESP                = Protocol{value: 50}
	AH                 = Protocol{value: 51}
	I_NLSP             = Protocol{value: 52}
	SWIPE              = Protocol{value: 53}
	NARP               = Protocol{value: 54}
	MOBILE             = Protocol{value: 55}
	TLSP               = Protocol{value: 56}
	SKIP               = Protocol{value: 57}
	IPV6_ICMP          = Protocol{value: 58}
	IPV6_NO_NXT        = Protocol{value: 59}
	IPV6_OPTS          = Protocol{value: 60}
	HOST_INTERNAL      = Protocol{value: 61}
	CFTP               = Protocol{value: 62}
	LOCAL_NETWORK      = Protocol{value: 63}
	SAT_EXPAK          = Protocol{value: 64}
	KRYPTOLAN          = Protocol{value: 65}
	RVD                = Protocol{value: 66}
	IPPC               = Protocol{value: 67}
	ANY_DISTRIBUTED_FS = Protocol{value: 68}
	SAT_MON            = Protocol{value: 69}
	VISA               = Protocol{value: 70}
	IPCV               = Protocol{value: 71}
	CPNX               = Protocol{value: 72}
	CPHB               = Protocol{value: 73}
	WSN                = Protocol{value: 74}
	PVP                = Protocol{value: 75}
	BR_SAT_MON         = Protocol{value: 76}
	SUN_ND             = Protocol{value: 77}
	WB_MON             = Protocol{value: 78}
	WB_EXPAK           = Protocol{value: 79}
	ISO_IP             = Protocol{value: 80}
	VMTP               = Protocol{value: 81}
	SECURE_VMTP        = Protocol{value: 82}
	VINES              = Protocol{value: 83}
	TTP                = Protocol{value: 84}
	NSFNET_IGP         = Protocol{value: 85}
	DGP                = Protocol{value: 86}
	TCF                = Protocol{value: 87}
	EIGRP              = Protocol{value: 88}
	OSPFIGP            = Protocol{value: 89}
	SPRITE_RPC         = Protocol{value: 90}
	LARP               = Protocol{value: 91}
	MTP                = Protocol{value: 92}
	AX25               = Protocol{value: 93}
	IPIP               = Protocol{value: 94}
	MICP               = Protocol{value: 95}
	SCC_SP             = Protocol{value: 96}
	ETHERIP            = Protocol{value: 97}
	ENCAP              = Protocol{value: 98}
	PRIVATE_ENCRYPTION = Protocol{value: 99}
	GMTP               = Protocol{value: 100}
	IFMP               = Protocol{value: 101}
	PNNI               = Protocol{value: 102}
	PIM                = Protocol{value: 103}
	ARIS               = Protocol{value: 104}
	SCPS               = Protocol{value: 105}
	QNX                = Protocol{value: 106}
	AN                 = Protocol{value: 107}
	IP_COMP            = Protocol{value: 108}
	SNP                = Protocol{value: 109}
	COMPAQ_PEER        = Protocol{value: 110}
	IPX_IN_IP          = Protocol{value: 111}
	VRRP               = Protocol{value: 112}
	PGM                = Protocol{value: 113}
	ZERO_HOP           = Protocol{value: 114}
	L2TP               = Protocol{value: 115}
	DDX                = Protocol{value: 116}
	IATP               = Protocol{value: 117}
	STP                = Protocol{value: 118}
	SRP                = Protocol{value: 119}
	UTI                = Protocol{value: 120}
	SMP                = Protocol{value: 121}
	SM                 = Protocol{value: 122}
	PTP                = Protocol{value: 123}
	ISIS               = Protocol{value: 124}
	FIRE               = Protocol{value: 125}
	CRTP               = Protocol{value: 126}
	CRUDP              = Protocol{value: 127}
	SSCOPMCE           = Protocol{value: 128}
	IPLT               = Protocol{value: 129}
	SPS                = Protocol{value: 130}
	PIPE               = Protocol{value: 131}
	SCTP               = Protocol{value: 132}
	FC                 = Protocol{value: 133}
	RSVP_E2E_IGNORE    = Protocol{value: 134}
	MOBILITY           = Protocol{value: 135}
	UDP_LITE           = Protocol{value: 136}
	MPLS_IN_IP         = Protocol{value: 137}
	MANET              = Protocol{value: 138}
	HIP                = Protocol{value: 139}
	SHIM6              = Protocol{value: 140}
	WESP               = Protocol{value: 141}
	ROHC               = Protocol{value: 142}

	// 143-252 are unassigned; see Custom.

	EXPERIMENTAL1 = Protocol{value: 253}
	EXPERIMENTAL2 = Protocol{value: 254}
	RESERVED      = Protocol{value: 255}
)

// standardNames is a total lookup table from byte value to display name for
// the 0-142 and 253-255 standard values. Index 143-252 is left as "" since
// those bytes are never represented as a standard Protocol.
var standardNames = [256]string{
	0: "HOPOPT", 1: "ICMP", 2: "IGMP", 3: "GGP", 4: "IPV4", 5: "ST", 6: "TCP",
	7: "CBT", 8: "EGP", 9: "IGP", 10: "BBN-RCC-MON", 11: "NVP-II", 12: "PUP",
	13: "ARGUS", 14: "EMCON", 15: "XNET", 16: "CHAOS", 17: "UDP", 18: "MUX",
	19: "DCN-MEAS", 20: "HMP", 21: "PRM", 22: "XNS-IDP", 23: "TRUNK-1",
	24: "TRUNK-2", 25: "LEAF-1", 26: "LEAF-2", 27: "RDP", 28: "IRTP",
	29: "ISO-TP4", 30: "NETBLT", 31: "MFE-NSP", 32: "MERIT-INP", 33: "DCCP",
	34: "3PC", 35: "IDPR", 36: "XTP", 37: "DDP", 38: "IDPR-CMTP", 39: "TP++",
	40: "IL", 41: "IPV6", 42: "SDRP", 43: "IPV6-ROUTE", 44: "IPV6-FRAG",
	45: "IDRP", 46: "RSVP", 47: "GRE", 48: "DSR", 49: "BNA", 50: "ESP",
	51: "AH", 52: "I-NLSP", 53: "SWIPE", 54: "NARP", 55: "MOBILE",
	56: "TLSP", 57: "SKIP", 58: "IPV6-ICMP", 59: "IPV6-NONXT",
	60: "IPV6-OPTS", 61: "HOST-INTERNAL", 62: "CFTP", 63: "LOCAL-NETWORK",
	64: "SAT-EXPAK", 65: "KRYPTOLAN", 66: "RVD", 67: "IPPC",
	68: "ANY-DISTRIBUTED-FS", 69: "SAT-MON", 70: "VISA", 71: "IPCV",
	72: "CPNX", 73: "CPHB", 74: "WSN", 75: "PVP", 76: "BR-SAT-MON",
	77: "SUN-ND", 78: "WB-MON", 79: "WB-EXPAK", 80: "ISO-IP", 81: "VMTP",
	82: "SECURE-VMTP", 83: "VINES", 84: "TTP", 85: "NSFNET-IGP", 86: "DGP",
	87: "TCF", 88: "EIGRP", 89: "OSPFIGP", 90: "SPRITE-RPC", 91: "LARP",
	92: "MTP", 93: "AX.25", 94: "IPIP", 95: "MICP", 96: "SCC-SP",
	97: "ETHERIP", 98: "ENCAP", 99: "PRIVATE-ENCRYPTION", 100: "GMTP",
	101: "IFMP", 102: "PNNI", 103: "PIM", 104: "ARIS", 105: "SCPS",
	106: "QNX", 107: "AN", 108: "IPCOMP", 109: "SNP", 110: "COMPAQ-PEER",
	111: "IPX-IN-IP", 112: "VRRP", 113: "PGM", 114: "ZERO-HOP", 115: "L2TP",
	116: "DDX", 117: "IATP", 118: "STP", 119: "SRP", 120: "UTI", 121: "SMP",
	122: "SM", 123: "PTP", 124: "ISIS", 125: "FIRE", 126: "CRTP",
	127: "CRUDP", 128: "SSCOPMCE", 129: "IPLT", 130: "SPS", 131: "PIPE",
	132: "SCTP", 133: "FC", 134: "RSVP-E2E-IGNORE", 135: "MOBILITY",
	136: "UDPLITE", 137: "MPLS-IN-IP", 138: "MANET", 139: "HIP",
	140: "SHIM6", 141: "WESP", 142: "ROHC",
	253: "EXPERIMENTAL1", 254: "EXPERIMENTAL2", 255: "RESERVED",
}

// FromByte converts a raw protocol byte to a Protocol. Values in [143, 252]
// become a Custom protocol; every other value maps to its standard name.
// All 256 possible byte values produce a defined result.
func FromByte(value uint8) Protocol {
	if value >= 143 && value <= 252 {
		return Protocol{value: value, custom: true}
	}
	return Protocol{value: value}
}

// IsCustom reports whether p is an open, locally-assigned value in
// [143, 252].
func (p Protocol) IsCustom() bool {
	return p.custom
}

// Byte returns the protocol's on-wire value.
func (p Protocol) Byte() uint8 {
	return p.value
}

// IsValid reports whether p is safe to place in InternetInfo: RESERVED is
// always invalid, and a Custom value is only valid inside [143, 252].
func (p Protocol) IsValid() bool {
	if p.custom {
		return p.value >= 143 && p.value <= 252
	}
	return p.value != RESERVED.value
}

// String renders the protocol's standard name, or "Custom(v)" for an open
// value.
func (p Protocol) String() string {
	if p.custom {
		return fmt.Sprintf("Custom(%d)", p.value)
	}
	if name := standardNames[p.value]; name != "" {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", p.value)
}
