package provision

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/meetjestad/go-provision/dfu"
)

func TestAlignPadding(t *testing.T) {
	aligns := []int{1, 2, 8, 128, 4096}
	offsets := []int{0, 1, 7, 8, 80, 127, 128, 129, 4095, 196560, FlashSize - 48}

	for _, align := range aligns {
		for _, offset := range offsets {
			pad := alignPadding(offset, align)
			if pad < 0 || pad >= align {
				t.Errorf("offset %d align %d: padding %d out of range", offset, align, pad)
			}
			if (offset-pad)%align != 0 {
				t.Errorf("offset %d align %d: write start %d not aligned", offset, align, offset-pad)
			}
		}
	}
}

func TestWriteDryRunStagesPaddedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.bin")
	prog := &Programmer{Tool: &dfu.Tool{}}

	data := bytes.Repeat([]byte{0xab}, 48)
	offset := FlashSize - len(data)
	err := prog.Write(context.Background(), RegionFlash, offset, data, WriteOptions{
		Path:   path,
		DryRun: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	staged, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	padding := offset % FlashAlign
	if len(staged) != padding+len(data) {
		t.Fatalf("staged %d bytes, want %d", len(staged), padding+len(data))
	}
	if !bytes.Equal(staged[:padding], make([]byte, padding)) {
		t.Error("padding is not zeroed")
	}
	if !bytes.Equal(staged[padding:], data) {
		t.Error("payload does not follow padding")
	}
}
