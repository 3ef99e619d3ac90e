package provision

// Flash geometry of the STM32L1 target.
const (
	// FlashSize is the size of the main flash region.
	FlashSize = 192 * 1024

	// FlashAlign is the erase granularity. Writes must start on such a
	// boundary, otherwise the erase fails. EEPROM writes additionally
	// need 8 byte alignment or dfu-util reports success without writing.
	FlashAlign = 128

	// ProtectSectorSize is the granularity of write protection.
	ProtectSectorSize = 4096

	flashBase  = 0x08000000
	optionBase = 0x1FF80000
)

// Memory regions addressable through DFU altsettings.
var (
	// RegionFlash is the main flash. It can be read back safely, so
	// writes to it are verified.
	RegionFlash = Region{
		Name:   "flash",
		Alt:    "0",
		Base:   flashBase,
		Verify: true,
	}

	// RegionOption holds the FLASH option registers. Writing it resets
	// the device before dfu-util can report completion, so it is neither
	// verified nor read back after a write.
	RegionOption = Region{
		Name:      "option bytes",
		Alt:       "1",
		Base:      optionBase,
		WillReset: true,
	}
)

// The Things Network parameters shared by all stations.
const (
	// AppEUI is the join EUI of the Meetjestad application.
	AppEUI uint64 = 0x70B3D57ED00003BA

	AppID         = "meet-je-stad"
	FrequencyPlan = "EU_863_870_TTN"

	// TODO: BasicMAC probably supports 1.0.something at least, check and
	// update existing devices too.
	LoRaWANVersion    = "MAC_V1_0"
	LoRaWANPHYVersion = "PHY_V1_0"
)

// deviceIDFormat derives the human readable TTN device id from a station id.
const deviceIDFormat = "meetstation-%d"
