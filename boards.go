package provision

import (
	"fmt"
	"sort"
	"strings"
)

// BoardInfo identifies a hardware revision of a sensor station. The id and
// version are stored in the credentials block so the firmware can adapt to
// the board it runs on.
type BoardInfo struct {
	ID      uint8
	Version uint8
}

// Boards is the registry of supported boards.
//
// Board id 0x1 is reserved for the original mjs-v1/mjs-v2 boards, which use
// a different flash layout, in case those are ever moved to this one.
//
// Note that all proto2 boards were initially flashed with an older version
// of this tool that did not include the board id and version bytes. Those
// blocks can be detected through their segment size.
var Boards = map[string]BoardInfo{
	"mjs2020-proto2": {ID: 0x2, Version: 0x01},
	"mjs2020-proto3": {ID: 0x2, Version: 0x02},
	"mjs2020-proto4": {ID: 0x2, Version: 0x03},
	// Fallback, just in case this tool is used for other boards.
	"other": {ID: 0x0, Version: 0x0},
}

// BoardNames returns the registered board names, sorted.
func BoardNames() []string {
	names := make([]string, 0, len(Boards))
	for name := range Boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupBoard resolves a board name from the registry.
func LookupBoard(name string) (BoardInfo, error) {
	board, ok := Boards[name]
	if !ok {
		return BoardInfo{}, fmt.Errorf("provision: unknown board %q, must be one of: %s",
			name, strings.Join(BoardNames(), ", "))
	}
	return board, nil
}
