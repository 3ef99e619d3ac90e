package mjsconf

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"
)

var testKey = []byte{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
}

func testBlock() *Block {
	return &Block{
		BoardID:      0x02,
		BoardVersion: 0x02,
		AppEUI:       0x70B3D57ED00003BA,
		DevEUI:       42,
		AppKey:       append([]byte(nil), testKey...),
	}
}

func TestMarshalLayout(t *testing.T) {
	b := testBlock()
	buf, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if len(buf) != BlockSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), BlockSize)
	}

	want := []byte{
		0x02, 0x02, // board id, board version
		0x70, 0xb3, 0xd5, 0x7e, 0xd0, 0x00, 0x03, 0xba, // app EUI
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2a, // dev EUI
	}
	want = append(want, testKey...)
	want = append(want,
		0x00, 0x26, // segment size (38)
		0x02, 0x01, // segment type
		0x00, 0x30, // total size (48)
		0xb6, 0xe0, 0x3b, 0x02, // magic
	)
	if !bytes.Equal(buf[4:], want) {
		t.Errorf("payload mismatch\ngot  % x\nwant % x", buf[4:], want)
	}
}

func TestMarshalChecksum(t *testing.T) {
	buf, err := testBlock().Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// Compute the checksum independently of the package helper.
	want := crc32.Checksum(buf[4:], crc32.MakeTable(crc32.Castagnoli))
	got := binary.BigEndian.Uint32(buf[:4])
	if got != want {
		t.Errorf("embedded crc %#08x, independently computed %#08x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	in := testBlock()
	buf, err := in.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	var out Block
	if err := Unmarshal(buf, &out); err != nil {
		t.Fatal(err)
	}
	if out.BoardID != in.BoardID || out.BoardVersion != in.BoardVersion {
		t.Errorf("board %d/%d, want %d/%d", out.BoardID, out.BoardVersion, in.BoardID, in.BoardVersion)
	}
	if out.AppEUI != in.AppEUI {
		t.Errorf("app eui %#x, want %#x", out.AppEUI, in.AppEUI)
	}
	if out.DevEUI != in.DevEUI {
		t.Errorf("dev eui %#x, want %#x", out.DevEUI, in.DevEUI)
	}
	if !bytes.Equal(out.AppKey, in.AppKey) {
		t.Errorf("app key % x, want % x", out.AppKey, in.AppKey)
	}
}

func TestCorruptionDetected(t *testing.T) {
	buf, err := testBlock().Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// Flipping any single byte after the CRC must fail the checksum, and
	// flipping the CRC itself must no longer match the payload.
	for i := range buf {
		corrupt := append([]byte(nil), buf...)
		corrupt[i] ^= 0x01

		var b Block
		if err := Unmarshal(corrupt, &b); err == nil {
			t.Errorf("corruption at byte %d not detected", i)
		}
	}
}

func TestMarshalKeySize(t *testing.T) {
	for _, size := range []int{0, 15, 17, 32} {
		b := testBlock()
		b.AppKey = make([]byte, size)
		if _, err := b.Marshal(); err == nil {
			t.Errorf("key size %d accepted", size)
		}
	}
}

func TestUnmarshalRejects(t *testing.T) {
	good, err := testBlock().Marshal()
	if err != nil {
		t.Fatal(err)
	}

	refresh := func(mutate func([]byte)) []byte {
		buf := append([]byte(nil), good...)
		mutate(buf)
		binary.BigEndian.PutUint32(buf[:4], Checksum(buf[4:]))
		return buf
	}

	testCases := []struct {
		name string
		buf  []byte
	}{
		{"short", good[:BlockSize-1]},
		{"long", append(append([]byte(nil), good...), 0)},
		{"bad magic", refresh(func(b []byte) { b[44] = 0 })},
		{"bad segment type", refresh(func(b []byte) { b[40] = 0xff })},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var b Block
			if err := Unmarshal(tc.buf, &b); err == nil {
				t.Error("expected error")
			}
		})
	}
}
