package provision

import (
	"bytes"
	"context"

	"github.com/meetjestad/go-provision/dfu"
)

// Region identifies a programmable memory area on the device.
type Region struct {
	Name string
	// Alt is the DFU altsetting selecting this region.
	Alt string
	// Base is the address of the first byte of the region.
	Base uint32
	// Verify enables read-back verification after a write.
	Verify bool
	// WillReset marks that writing the region resets the device before
	// the transport can report completion.
	WillReset bool
}

// WriteOptions modify a single programmer write.
type WriteOptions struct {
	// Path keeps the staged payload in this file instead of an automatic
	// temporary file.
	Path string
	// DryRun only reports the commands that would have run.
	DryRun bool
}

// Programmer writes payloads into device memory regions through dfu-util.
type Programmer struct {
	Tool *dfu.Tool
	// Align is the erase alignment writes must start on. Zero means
	// FlashAlign.
	Align int
	Log   Logger
}

func (p *Programmer) align() int {
	if p.Align == 0 {
		return FlashAlign
	}
	return p.Align
}

// alignPadding returns the number of zero bytes needed in front of a write
// at offset so that the write starts on an align boundary.
func alignPadding(offset, align int) int {
	return offset % align
}

// Write programs data at offset within region and, for verifiable regions,
// reads it back and compares.
//
// The write is zero padded downwards to the previous erase boundary: an
// unaligned erase fails outright, and on EEPROM-like regions an unaligned
// write even reports success without storing anything.
func (p *Programmer) Write(ctx context.Context, region Region, offset int, data []byte, opts WriteOptions) error {
	padding := alignPadding(offset, p.align())
	padded := make([]byte, padding+len(data))
	copy(padded[padding:], data)
	addr := region.Base + uint32(offset-padding)

	err := p.Tool.Download(ctx, region.Alt, addr, padded, dfu.DownloadOptions{
		WillReset: region.WillReset,
		Path:      opts.Path,
		DryRun:    opts.DryRun,
	})
	if err != nil {
		return err
	}

	if !region.Verify || opts.DryRun {
		return nil
	}
	return p.verify(ctx, region, addr, padded)
}

// verify reads back what was just written and compares it byte for byte.
func (p *Programmer) verify(ctx context.Context, region Region, addr uint32, data []byte) error {
	readBack, err := p.Tool.Upload(ctx, region.Alt, addr, len(data))
	if err != nil {
		return err
	}
	if !bytes.Equal(readBack, data) {
		return &VerificationError{Region: region.Name}
	}
	return nil
}
