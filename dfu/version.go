package dfu

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// legacyVersionPrefix identifies dfu-util 0.9, the oldest supported version.
const legacyVersionPrefix = "dfu-util 0.9"

// Capabilities describe what the installed dfu-util version can do.
//
// They are detected once per run and passed to every Tool explicitly.
type Capabilities struct {
	// Version is the first line of the dfu-util version output.
	Version string
	// LegacyReset is set for dfu-util 0.9, which does not support the
	// will-reset address suffix and reports a spurious error when a
	// download resets the device.
	LegacyReset bool
}

// DetectCapabilities queries the version of the dfu-util executable.
// Path being empty means "dfu-util" from PATH.
func DetectCapabilities(ctx context.Context, path string) (Capabilities, error) {
	if path == "" {
		path = "dfu-util"
	}
	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return Capabilities{}, fmt.Errorf("dfu: query version: %w", err)
	}
	return capabilitiesFromVersion(string(out)), nil
}

// capabilitiesFromVersion derives capabilities from the output of
// dfu-util --version.
func capabilitiesFromVersion(output string) Capabilities {
	version, _, _ := strings.Cut(output, "\n")
	return Capabilities{
		Version:     version,
		LegacyReset: strings.HasPrefix(output, legacyVersionPrefix),
	}
}
