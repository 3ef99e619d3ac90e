package optbytes

import (
	"bytes"
	"math/bits"
	"testing"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name  string
		words []uint32
		want  []byte
	}{
		{"empty", nil, []byte{}},
		{
			"zero", []uint32{0},
			[]byte{0x00, 0x00, 0xff, 0xff, 0x00, 0x00, 0xff, 0xff},
		},
		{
			"optr with bor", []uint32{0x807600AA},
			[]byte{0xaa, 0x00, 0x55, 0xff, 0x76, 0x80, 0x89, 0x7f},
		},
		{
			"wrprot2 last sector", []uint32{0x00008000},
			[]byte{0x00, 0x80, 0xff, 0x7f, 0x00, 0x00, 0xff, 0xff},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.words)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got  % x\nwant % x", got, tc.want)
			}
		})
	}
}

func TestEncodeComplements(t *testing.T) {
	words := []uint32{0, 0xffffffff, 0x807000AA, 0x12345678, 0x00008000}
	p := Encode(words)

	if len(p) != len(words)*EncodedWordSize {
		t.Fatalf("encoded %d bytes, want %d", len(p), len(words)*EncodedWordSize)
	}
	for off := 0; off+4 <= len(p); off += 4 {
		hw := uint16(p[off]) | uint16(p[off+1])<<8
		comp := uint16(p[off+2]) | uint16(p[off+3])<<8
		if comp != hw^0xffff {
			t.Errorf("byte %d: complement %#04x does not match %#04x", off, comp, hw)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	words := []uint32{0x807600AA, 0x00000000, 0x00008000, 0xdeadbeef}
	got, err := Decode(Encode(words))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(words) {
		t.Fatalf("decoded %d words, want %d", len(got), len(words))
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("word %d: %#08x, want %#08x", i, got[i], words[i])
		}
	}
}

func TestDecodeRejectsBadComplement(t *testing.T) {
	p := Encode([]uint32{0x807600AA})
	p[2] ^= 0x01
	if _, err := Decode(p); err == nil {
		t.Error("corrupted complement accepted")
	}

	if _, err := Decode(make([]byte, 7)); err == nil {
		t.Error("short image accepted")
	}
}

func TestProtectedSetsExactlyOneBit(t *testing.T) {
	testCases := []struct {
		name                  string
		flashSize, sectorSize int
		wantWord              int
		wantBit               int
	}{
		// 32 sectors, last is 31: low protection word.
		{"128k", 128 * 1024, 4096, 1, 31},
		// 48 sectors, last is 47: high protection word.
		{"192k", 192 * 1024, 4096, 2, 15},
		{"256k", 256 * 1024, 4096, 2, 31},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			unprot := Unprotected()
			prot := Protected(tc.flashSize, tc.sectorSize)

			var diffs int
			for i := range prot {
				diffs += bits.OnesCount32(prot[i] ^ unprot[i])
			}
			if diffs != 1 {
				t.Fatalf("%d bits differ from unprotected, want exactly 1", diffs)
			}
			if got := prot[tc.wantWord] ^ unprot[tc.wantWord]; got != 1<<tc.wantBit {
				t.Errorf("word %d differs by %#08x, want bit %d", tc.wantWord, got, tc.wantBit)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	if d := Default(); d != [3]uint32{0x807000AA, 0, 0} {
		t.Errorf("default %#08x", d)
	}
	if u := Unprotected(); u != [3]uint32{0x807600AA, 0, 0} {
		t.Errorf("unprotected %#08x", u)
	}
}
