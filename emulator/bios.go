package emulator

import (
	"fmt"
	"io"
)

const BIOS_SIZE uint32 = 512 * 1024 // BIOS images are always 512KB in length

// This stores the raw BIOS data
type BIOS struct {
	Data []byte // Raw BIOS data
}

// Loads a BIOS from a reader. The image must be exactly 512 * 1024 bytes;
// shorter files fail the ReadFull, and longer ones are caught by the
// trailing-byte probe below, since a single Read is never guaranteed to
// fill (or exhaust) the reader.
func LoadBIOS(r io.Reader) (*BIOS, error) {
	data := make([]byte, BIOS_SIZE)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("invalid BIOS size (expected %d bytes): %w", BIOS_SIZE, err)
	}

	var extra [1]byte
	if n, err := r.Read(extra[:]); n > 0 {
		return nil, fmt.Errorf("invalid BIOS size (expected exactly %d bytes, file is larger)", BIOS_SIZE)
	} else if err != nil && err != io.EOF {
		return nil, err
	}

	return &BIOS{Data: data}, nil
}

// Returns a 32 bit little endian value at `offset`. Note that `offset` is
// not the absolute address used by the CPU, instead it is an offset in the
// BIOS memory range
func (bios *BIOS) Load32(offset uint32) uint32 {
	b0 := uint32(bios.Data[offset+0])
	b1 := uint32(bios.Data[offset+1])
	b2 := uint32(bios.Data[offset+2])
	b3 := uint32(bios.Data[offset+3])
	return b0 | (b1 << 8) | (b2 << 16) | (b3 << 24)
}

// Fetch byte at `offset`
func (bios *BIOS) Load8(offset uint32) byte {
	return bios.Data[offset]
}