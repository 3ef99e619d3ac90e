package main

import (
	"context"
	"flag"

	"github.com/meetjestad/go-provision/dfu"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	dfuUtil string
	ttnCLI  string
	device  string
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.dfuUtil, "dfu-util", "dfu-util", "dfu-util executable to use")
	fs.StringVar(&c.ttnCLI, "ttn-lw-cli", "ttn-lw-cli", "ttn-lw-cli executable to use")
	fs.StringVar(&c.device, "d", dfu.DefaultDevice, "usb vendor:product selector passed to dfu-util")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("mjsprov", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "mjsprov",
		ShortUsage: "mjsprov [flags] <subcommand>",
		ShortHelp:  "Initialize Meetjestad sensor stations over USB DFU.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}, &cfg
}
