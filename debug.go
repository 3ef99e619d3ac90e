package provision

import (
	"encoding/hex"
	"strings"
)

// Logger is the interface used for progress and warning messages.
//
// Some messages will be multiple lines.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nullLoggerImpl struct{}

func (nullLoggerImpl) Printf(format string, args ...interface{}) {}

// nullLogger is a logger that does nothing.
var nullLogger = nullLoggerImpl{}

// getLogger always returns a logger.
func getLogger(log Logger) Logger {
	if log == nil {
		return nullLogger
	}
	return log
}

// hexDump lazily formats binary data, matching `hexdump -C`.
//
// hexDump implements the fmt.Stringer interface, allowing it to lazily dump
// binary data as hex when needed.
type hexDump []byte

func (h hexDump) String() string {
	var buf strings.Builder
	buf.WriteByte('\n')
	d := hex.Dumper(&buf)
	_, _ = d.Write([]byte(h))
	_ = d.Close()
	return buf.String()
}
