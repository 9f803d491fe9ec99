// Package codec implements the binary wire format: a small header
// followed by a pre-order depth-first dump of the tree's nodes. It
// provides both file-backed and memory-backed reader/writer endpoints;
// the encode/decode logic itself is endpoint-agnostic.
package codec

import (
	"encoding/binary"

	"github.com/pcgeo/pctree/internal/utils"
)

// Magic identifies a pctree binary file. It is written verbatim and
// checked verbatim on read; a mismatch is fatal.
var Magic = [4]byte{'P', 'C', 'G', 'H'}

// Version is the only wire format version this package writes, and the
// only one it accepts on read.
const Version uint8 = 1

// HeaderSize is the fixed size in bytes of the header: magic(4) +
// version(1) + endian(1) + reserved(2).
const HeaderSize = 8

// Header is the fixed-size preamble written before the tree body.
type Header struct {
	Version uint8
	Order   binary.ByteOrder
}

// Encode writes the header into a HeaderSize-byte buffer, ready to hand
// to a Writer.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	buf[4] = h.Version
	buf[5] = utils.EndianByteFor(h.Order)
	// buf[6:8] reserved, always zero
	return buf
}

// DecodeHeader parses HeaderSize bytes previously produced by Encode.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, utils.New(utils.KindMalformed, "header truncated")
	}
	if [4]byte(buf[0:4]) != Magic {
		return Header{}, utils.New(utils.KindMalformed, "bad magic")
	}
	version := buf[4]
	if version != Version {
		return Header{}, utils.New(utils.KindUnsupported, "unsupported wire version")
	}
	order, err := utils.ByteOrderFor(buf[5])
	if err != nil {
		return Header{}, utils.Wrap(utils.KindMalformed, "header endian byte", err)
	}
	return Header{Version: version, Order: order}, nil
}
