// Package provision initializes Meetjestad sensor stations.
//
// A provisioning run generates the credentials block stored at the end of
// the station's flash, writes it together with write protecting option
// bytes through dfu-util and registers the station on The Things Network.
//
// The station has to be connected over USB in DFU mode.
package provision
