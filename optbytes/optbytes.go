// Package optbytes encodes STM32L0/L1 FLASH option register images.
//
// The hardware stores option bytes per 16-bit half word, each immediately
// followed by its bitwise complement. A word that fails this redundancy
// check is rejected by the device, so the encoding must be exact.
package optbytes

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EncodedWordSize is the encoded size of one 32-bit option word: two half
// words, each followed by its complement.
const EncodedWordSize = 8

// Encode expands option words into their on-device representation.
//
// For every word it emits, little endian: the low half word, its complement,
// the high half word and its complement.
func Encode(words []uint32) []byte {
	res := make([]byte, 0, len(words)*EncodedWordSize)
	for _, word := range words {
		for _, hw := range [2]uint16{uint16(word), uint16(word >> 16)} {
			res = binary.LittleEndian.AppendUint16(res, hw)
			res = binary.LittleEndian.AppendUint16(res, hw^0xffff)
		}
	}
	return res
}

var errLength = errors.New("optbytes: image length is not a multiple of 8")

// Decode recovers option words from an encoded image, verifying the
// complement half words.
func Decode(p []byte) ([]uint32, error) {
	if len(p)%EncodedWordSize != 0 {
		return nil, errLength
	}

	words := make([]uint32, 0, len(p)/EncodedWordSize)
	for off := 0; off < len(p); off += EncodedWordSize {
		var halves [2]uint16
		for i := range halves {
			hw := binary.LittleEndian.Uint16(p[off+4*i:])
			comp := binary.LittleEndian.Uint16(p[off+4*i+2:])
			if comp != hw^0xffff {
				return nil, fmt.Errorf("optbytes: complement mismatch at byte %d: %#04x vs %#04x", off+4*i, hw, comp)
			}
			halves[i] = hw
		}
		words = append(words, uint32(halves[0])|uint32(halves[1])<<16)
	}
	return words, nil
}

// Option register words, in write order: FLASH_OPTR, FLASH_WRPROT1
// (sectors 0-31) and FLASH_WRPROT2 (sectors 32-63).
const (
	optrDefault = 0x807000AA

	// borLevel5 selects brown-out reset at level 5 (2.8-2.9V) in FLASH_OPTR.
	borLevel5 = 0x60000
)

// Default returns the factory option register values.
func Default() [3]uint32 {
	return [3]uint32{optrDefault, 0, 0}
}

// Unprotected returns the factory values with brown-out reset enabled and
// no sector write protection.
func Unprotected() [3]uint32 {
	w := Default()
	w[0] |= borLevel5
	return w
}

// Protected returns the unprotected values plus write protection for the
// last sector of a flash of the given geometry.
//
// Note: DFU downloads into a protected sector report success but store
// nothing, which is why the flash is programmed before protection is set.
func Protected(flashSize, sectorSize int) [3]uint32 {
	w := Unprotected()
	sector := flashSize/sectorSize - 1
	if sector <= 31 {
		w[1] |= 1 << sector
	} else {
		w[2] |= 1 << (sector - 32)
	}
	return w
}
