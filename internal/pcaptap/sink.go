// Package pcaptap implements the pcap tap: a pass-through component that
// writes every frame it sees, in either direction, to a classic pcap file
// for inspection with Wireshark or tshark, while forwarding the frame
// unchanged.
package pcaptap

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// linkTypeIEEE80211 is LINKTYPE_IEEE802_11 (105), the pcap link-layer header
// type for raw 802.11 frames. See https://www.tcpdump.org/linktypes.html.
const linkTypeIEEE80211 = 105

const defaultSnapLength = 65535

// Sink accepts frames as they cross the tap. WriteFrame is called once per
// frame seen, in either direction, with the simulated time it crossed at.
type Sink interface {
	WriteFrame(at time.Duration, data []byte) error
	Close() error
}

// NopSink discards every frame. It is the default when no path is
// configured, matching the original component's "empty path means no pcap
// is generated" behavior.
type NopSink struct{}

func (NopSink) WriteFrame(time.Duration, []byte) error { return nil }
func (NopSink) Close() error                            { return nil }

// Writer is a Sink that writes a classic pcap file: a 24-byte global header
// followed by one 16-byte per-frame header plus body per frame.
//
// Byte order doesn't matter for this format, only consistency, so frames
// are written little-endian, matching what most modern capture tools emit.
type Writer struct {
	file       *os.File
	snapLength uint32
	maxFrames  int64
	frame      int64
}

// NewWriter creates path (truncating any existing file), writes the global
// header, and returns a Writer ready to accept frames. snapLength bounds
// how many bytes of each frame are recorded; maxFrames bounds how many
// frames total are written before WriteFrame becomes a no-op.
func NewWriter(path string, snapLength uint32, maxFrames int64) (*Writer, error) {
	if snapLength == 0 {
		snapLength = defaultSnapLength
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pcaptap: create %q: %w", path, err)
	}
	w := &Writer{file: f, snapLength: snapLength, maxFrames: maxFrames}
	if err := writeGlobalHeader(f, snapLength); err != nil {
		f.Close()
		return nil, fmt.Errorf("pcaptap: write global header: %w", err)
	}
	return w, nil
}

func (w *Writer) WriteFrame(at time.Duration, data []byte) error {
	w.frame++
	if w.maxFrames > 0 && w.frame > w.maxFrames {
		return nil
	}

	secs := uint32(at / time.Second)
	usecs := uint32((at % time.Second) / time.Microsecond)

	captured := uint32(len(data))
	if captured > w.snapLength {
		captured = w.snapLength
	}

	if err := writeU32(w.file, secs); err != nil {
		return err
	}
	if err := writeU32(w.file, usecs); err != nil {
		return err
	}
	if err := writeU32(w.file, captured); err != nil {
		return err
	}
	if err := writeU32(w.file, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.file.Write(data[:captured])
	return err
}

func (w *Writer) Close() error {
	return w.file.Close()
}

func writeGlobalHeader(wtr io.Writer, snapLength uint32) error {
	if err := writeU32(wtr, 0xa1b2c3d4); err != nil { // magic number
		return err
	}
	if err := writeU16(wtr, 2); err != nil { // major version
		return err
	}
	if err := writeU16(wtr, 4); err != nil { // minor version
		return err
	}
	if err := writeU32(wtr, 0); err != nil { // timezone correction, always GMT
		return err
	}
	if err := writeU32(wtr, 0); err != nil { // timestamp accuracy, unused by all tools
		return err
	}
	if err := writeU32(wtr, snapLength); err != nil {
		return err
	}
	return writeU32(wtr, linkTypeIEEE80211)
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
