package provision

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"os"
	"os/exec"
	"strings"
)

// Registrar creates end devices on The Things Network using ttn-lw-cli.
type Registrar struct {
	// Path is the ttn-lw-cli executable. Empty means "ttn-lw-cli" from
	// PATH.
	Path string
	Log  Logger
}

// Registration carries the identity and credentials of one device.
type Registration struct {
	AppID             string
	DeviceID          string
	AppEUI            uint64
	DevEUI            uint64
	AppKey            []byte
	FrequencyPlan     string
	LoRaWANVersion    string
	LoRaWANPHYVersion string
}

func (r *Registrar) path() string {
	if r.Path == "" {
		return "ttn-lw-cli"
	}
	return r.Path
}

// Register creates the end device. With dryRun set, only the command that
// would have run is reported.
func (r *Registrar) Register(ctx context.Context, reg Registration, dryRun bool) error {
	log := getLogger(r.Log)

	args := []string{
		"end-devices", "create",
		"--application-id", reg.AppID,
		"--device-id", reg.DeviceID,
		"--dev-eui", hexEUI(reg.DevEUI),
		"--root-keys.app-key.key", hex.EncodeToString(reg.AppKey),
		"--join-eui", hexEUI(reg.AppEUI),
		"--lorawan-version", reg.LoRaWANVersion,
		"--lorawan-phy-version", reg.LoRaWANPHYVersion,
		"--frequency-plan-id", reg.FrequencyPlan,
	}
	cmdLine := strings.Join(append([]string{r.path()}, args...), " ")

	if dryRun {
		log.Printf("not running: %s", cmdLine)
		return nil
	}
	log.Printf("running: %s", cmdLine)

	cmd := exec.CommandContext(ctx, r.path(), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &RegistrationError{DeviceID: reg.DeviceID, Err: err}
	}
	return nil
}

// hexEUI renders an EUI as 8 big endian bytes in hex, the format
// ttn-lw-cli expects.
func hexEUI(eui uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], eui)
	return hex.EncodeToString(b[:])
}
