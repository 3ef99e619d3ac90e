// Package mjsconf encodes the credentials block stored in the last flash
// sector of Meetjestad sensor stations.
//
// The station firmware locates the block through the trailing magic value
// and verifies its CRC-32C checksum, so the layout below must match the
// firmware byte for byte.
package mjsconf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// Block layout constants.
const (
	// Magic marks a credentials block. It is the last field of the block.
	Magic uint32 = 0xB6E03B02

	// SegmentCredentials identifies the segment as LoRaWAN credentials.
	SegmentCredentials uint16 = 0x0201

	// KeySize is the size of the LoRaWAN application key.
	KeySize = 16

	crcSize = 4

	// SegmentSize is the byte length of the credentials segment: board id,
	// board version, app EUI, dev EUI, app key, segment size, segment type.
	SegmentSize = 1 + 1 + 8 + 8 + KeySize + 2 + 2

	// BlockSize is the byte length of the whole block: CRC, segment,
	// total size and magic.
	BlockSize = crcSize + SegmentSize + 2 + 4
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC-32C checksum over p.
//
// This is the same checksum the station firmware computes when it validates
// a block, covering every block byte after the CRC field itself.
func Checksum(p []byte) uint32 {
	return crc32.Checksum(p, castagnoli)
}

// Block is the provisioning record for one station.
//
// Wire format, big endian:
//
//	crc            uint32  (over bytes 4..47)
//	board id       uint8
//	board version  uint8
//	app EUI        uint64
//	dev EUI        uint64
//	app key        16 bytes
//	segment size   uint16  (38)
//	segment type   uint16  (0x0201)
//	total size     uint16  (48)
//	magic          uint32  (0xB6E03B02)
type Block struct {
	BoardID      uint8
	BoardVersion uint8
	AppEUI       uint64
	DevEUI       uint64
	AppKey       []byte
}

var (
	errKeySize   = errors.New("mjsconf: app key must be 16 bytes")
	errBlockSize = errors.New("mjsconf: block must be 48 bytes")
	errMagic     = errors.New("mjsconf: bad magic")
	errSegment   = errors.New("mjsconf: not a credentials segment")
)

// Marshal serializes the block with its checksum filled in.
func (b *Block) Marshal() ([]byte, error) {
	if len(b.AppKey) != KeySize {
		return nil, errKeySize
	}

	buf := make([]byte, 0, BlockSize)
	buf = binary.BigEndian.AppendUint32(buf, 0) // crc, filled in below
	buf = append(buf, b.BoardID, b.BoardVersion)
	buf = binary.BigEndian.AppendUint64(buf, b.AppEUI)
	buf = binary.BigEndian.AppendUint64(buf, b.DevEUI)
	buf = append(buf, b.AppKey...)
	buf = binary.BigEndian.AppendUint16(buf, SegmentSize)
	buf = binary.BigEndian.AppendUint16(buf, SegmentCredentials)
	buf = binary.BigEndian.AppendUint16(buf, BlockSize)
	buf = binary.BigEndian.AppendUint32(buf, Magic)

	binary.BigEndian.PutUint32(buf[:crcSize], Checksum(buf[crcSize:]))
	return buf, nil
}

// Unmarshal parses an encoded block after validating its checksum, magic
// and segment type.
func Unmarshal(p []byte, b *Block) error {
	if len(p) != BlockSize {
		return errBlockSize
	}

	crc := binary.BigEndian.Uint32(p[:crcSize])
	if sum := Checksum(p[crcSize:]); sum != crc {
		return fmt.Errorf("mjsconf: checksum mismatch: block says %#08x, computed %#08x", crc, sum)
	}
	if binary.BigEndian.Uint32(p[44:48]) != Magic {
		return errMagic
	}
	if binary.BigEndian.Uint16(p[40:42]) != SegmentCredentials {
		return errSegment
	}

	b.BoardID = p[4]
	b.BoardVersion = p[5]
	b.AppEUI = binary.BigEndian.Uint64(p[6:14])
	b.DevEUI = binary.BigEndian.Uint64(p[14:22])
	b.AppKey = append([]byte(nil), p[22:22+KeySize]...)
	return nil
}
