package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	provision "github.com/meetjestad/go-provision"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type listConfig struct {
	rootConfig *rootConfig
	out        io.Writer
}

func (c *listConfig) Exec(ctx context.Context, _ []string) error {
	devs, err := provision.ListDFUDevices()
	if err != nil {
		return err
	}

	if len(devs) == 0 {
		fmt.Fprintln(c.out, "no devices in DFU mode found")
		return nil
	}
	for _, d := range devs {
		fmt.Fprintf(c.out, "%s  %s %s", d.Path, d.Manufacturer, d.Product)
		if d.Serial != "" {
			fmt.Fprintf(c.out, " (serial %s)", d.Serial)
		}
		fmt.Fprintln(c.out)
	}
	return nil
}

func newListCmd(rootConfig *rootConfig, out io.Writer) *ffcli.Command {
	cfg := listConfig{rootConfig: rootConfig, out: out}

	fs := flag.NewFlagSet("mjsprov list", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "list",
		ShortUsage: "mjsprov list",
		ShortHelp:  "List attached devices in DFU mode.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
