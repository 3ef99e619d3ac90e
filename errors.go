package provision

import "fmt"

// VerificationError reports that data read back after programming did not
// match what was written.
type VerificationError struct {
	Region string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("provision: verification of %s failed, data read back was different; maybe you need to unprotect first", e.Region)
}

// RegistrationError reports a failed TTN registration.
//
// The device is already fully programmed when this happens; only the
// registration needs to be retried.
type RegistrationError struct {
	DeviceID string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("provision: registering %s failed: %v", e.DeviceID, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
