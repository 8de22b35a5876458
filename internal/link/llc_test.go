package link

import (
	"strings"
	"testing"

	"github.com/jesse99/snet/internal/packet"
)

func TestLlcRoundTrip(t *testing.T) {
	p := packet.New("test", "#>1.1")
	p.PushBytes([]byte("hello"))

	WithIPv4().Push(p)

	header, err := PopLlc(p)
	if err != nil {
		t.Fatalf("PopLlc failed: %v", err)
	}
	if header.EtherType.Uint16() != 0x0800 {
		t.Fatalf("got ether type %#x, want 0x0800", header.EtherType.Uint16())
	}
	if string(p.PopBytes(p.Len())) != "hello" {
		t.Fatalf("payload mismatch")
	}
}

func TestLlcRejectsBadDSAP(t *testing.T) {
	p := packet.New("test", "#>1.2")
	p.PushBytes([]byte("x"))
	WithIPv4().Push(p)
	p.Bytes()[0] = 0

	_, err := PopLlc(p)
	if err == nil || !strings.Contains(err.Error(), "DSAP isn't 170") {
		t.Fatalf("got %v, want DSAP error", err)
	}
}

func TestLlcRejectsBadOUI(t *testing.T) {
	p := packet.New("test", "#>1.3")
	p.PushBytes([]byte("x"))
	WithIPv4().Push(p)
	p.Bytes()[3] = 1

	_, err := PopLlc(p)
	if err == nil || !strings.Contains(err.Error(), "OUI isn't 0") {
		t.Fatalf("got %v, want OUI error", err)
	}
}
