package dfu

import "bytes"

// legacyOutcome classifies a download result on dfu-util 0.9 when the
// device was expected to reset.
type legacyOutcome int

const (
	legacySuccess legacyOutcome = iota
	// legacyBenignReset is the known spurious failure: the device reset
	// before dfu-util could read the final status.
	legacyBenignReset
	legacyFailure
)

// dfu-util 0.9 exits with this code and diagnostic when the device resets
// during a download. Both must match before the error is suppressed, so a
// genuine download failure is never masked.
const legacyResetExitCode = 74

var legacyResetDiagnostic = []byte("dfu-util: Error during download get_status")

// classifyLegacyReset classifies a dfu-util 0.9 exit code and combined
// output for a download that was expected to reset the device.
func classifyLegacyReset(exitCode int, output []byte) legacyOutcome {
	if exitCode == 0 {
		return legacySuccess
	}
	if exitCode == legacyResetExitCode && bytes.Contains(output, legacyResetDiagnostic) {
		return legacyBenignReset
	}
	return legacyFailure
}
