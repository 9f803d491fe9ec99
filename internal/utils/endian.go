package utils

import "encoding/binary"

// ReaderAt is a simplified interface for io.ReaderAt, kept separate so
// memory-backed readers don't need to satisfy the rest of io.File.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// ReadUint64 reads a 64-bit value at the specified offset using order.
func ReadUint64(r ReaderAt, offset int64, order binary.ByteOrder) (uint64, error) {
	buf := GetBuffer(8)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

// ReadUint32 reads a 32-bit value at the specified offset using order.
func ReadUint32(r ReaderAt, offset int64, order binary.ByteOrder) (uint32, error) {
	buf := GetBuffer(4)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

// ByteOrderFor maps the single wire endian byte (0 = little, 1 = big) to
// a binary.ByteOrder, mirroring the HDF5 superblock's endianness flag bit.
func ByteOrderFor(endianByte byte) (binary.ByteOrder, error) {
	switch endianByte {
	case 0:
		return binary.LittleEndian, nil
	case 1:
		return binary.BigEndian, nil
	default:
		return nil, New(KindMalformed, "unrecognized endian byte")
	}
}

// EndianByteFor is the inverse of ByteOrderFor, used when writing the
// header.
func EndianByteFor(order binary.ByteOrder) byte {
	if order == binary.BigEndian {
		return 1
	}
	return 0
}
