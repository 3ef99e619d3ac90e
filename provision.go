package provision

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/meetjestad/go-provision/dfu"
	"github.com/meetjestad/go-provision/mjsconf"
	"github.com/meetjestad/go-provision/optbytes"
)

// Config selects what a single provisioning run does.
type Config struct {
	// Board is the name of the board being flashed, from Boards.
	Board string
	// ID is the station id. It doubles as the device EUI.
	ID int

	// FlashFile and OptionFile keep the generated images in these files
	// instead of automatic temporary files.
	FlashFile  string
	OptionFile string

	// SkipFlash suppresses the device writes and SkipRegister the TTN
	// call; both only report the commands that would have run.
	SkipFlash    bool
	SkipRegister bool

	Tool      *dfu.Tool
	Registrar *Registrar
	Log       Logger
}

// DeviceID returns the human readable TTN device id for a station id.
func DeviceID(id int) string {
	return fmt.Sprintf(deviceIDFormat, id)
}

// Provision runs the full sequence for one station: generate a credentials
// block with a fresh application key, program and verify it at the end of
// flash, write protect the final sector through the option bytes and
// register the station on TTN.
//
// Completed device writes are never rolled back. When registration fails
// the station is fully programmed and only the TTN side needs a retry.
func Provision(ctx context.Context, cfg Config) error {
	log := getLogger(cfg.Log)

	board, err := LookupBoard(cfg.Board)
	if err != nil {
		return err
	}

	key := make([]byte, mjsconf.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("provision: generate app key: %w", err)
	}

	block := &mjsconf.Block{
		BoardID:      board.ID,
		BoardVersion: board.Version,
		AppEUI:       AppEUI,
		DevEUI:       uint64(cfg.ID),
		AppKey:       key,
	}
	flash, err := block.Marshal()
	if err != nil {
		return err
	}
	log.Printf("generated flash contents:%s", hexDump(flash))

	prog := &Programmer{Tool: cfg.Tool, Align: FlashAlign, Log: cfg.Log}
	if !cfg.SkipFlash {
		checkDeviceAttached(log)
		log.Printf("programming flash...")
	} else {
		log.Printf("not programming flash...")
	}

	// The block lives at the very end of flash.
	offset := FlashSize - len(flash)
	err = prog.Write(ctx, RegionFlash, offset, flash, WriteOptions{
		Path:   cfg.FlashFile,
		DryRun: cfg.SkipFlash,
	})
	if err != nil {
		return err
	}
	if !cfg.SkipFlash {
		log.Printf("programmed flash")
	}

	if err := writeOptionBytes(ctx, cfg, prog, protectedWords()); err != nil {
		return err
	}

	deviceID := DeviceID(cfg.ID)
	if !cfg.SkipRegister {
		log.Printf("registering %s on TTN...", deviceID)
	} else {
		log.Printf("not registering %s on TTN...", deviceID)
	}
	reg := Registration{
		AppID:             AppID,
		DeviceID:          deviceID,
		AppEUI:            AppEUI,
		DevEUI:            uint64(cfg.ID),
		AppKey:            key,
		FrequencyPlan:     FrequencyPlan,
		LoRaWANVersion:    LoRaWANVersion,
		LoRaWANPHYVersion: LoRaWANPHYVersion,
	}
	if err := cfg.Registrar.Register(ctx, reg, cfg.SkipRegister); err != nil {
		return err
	}
	if !cfg.SkipRegister {
		log.Printf("registered device on TTN")
	}

	if !cfg.SkipFlash {
		// Setting option bytes resets.
		log.Printf("note: device was restarted")
	}
	return nil
}

// Unprotect writes option bytes without write protection, so a previously
// provisioned station can be reflashed. Nothing else is written and no
// registration takes place.
func Unprotect(ctx context.Context, cfg Config) error {
	log := getLogger(cfg.Log)

	prog := &Programmer{Tool: cfg.Tool, Align: FlashAlign, Log: cfg.Log}
	if !cfg.SkipFlash {
		checkDeviceAttached(log)
	}
	if err := writeOptionBytes(ctx, cfg, prog, unprotectedWords()); err != nil {
		return err
	}

	if !cfg.SkipFlash {
		log.Printf("note: device was restarted")
	}
	return nil
}

// writeOptionBytes encodes the option words and programs them into the
// option byte region. The device resets during this write.
func writeOptionBytes(ctx context.Context, cfg Config, prog *Programmer, words []uint32) error {
	option := optbytes.Encode(words)
	getLogger(cfg.Log).Printf("encoded option bytes:%s", hexDump(option))

	return prog.Write(ctx, RegionOption, 0, option, WriteOptions{
		Path:   cfg.OptionFile,
		DryRun: cfg.SkipFlash,
	})
}

// checkDeviceAttached warns when no bootloader is visible on the bus. The
// real device selection still happens inside dfu-util.
func checkDeviceAttached(log Logger) {
	devs, err := ListDFUDevices()
	if errors.Is(err, ErrUSBNotSupported) {
		return
	}
	if err != nil {
		log.Printf("warning: %v", err)
		return
	}
	if len(devs) == 0 {
		log.Printf("warning: no device in DFU mode found, is the station connected and its BOOT jumper set?")
	}
}

func protectedWords() []uint32 {
	w := optbytes.Protected(FlashSize, ProtectSectorSize)
	return w[:]
}

func unprotectedWords() []uint32 {
	w := optbytes.Unprotected()
	return w[:]
}
