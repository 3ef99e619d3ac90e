package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	provision "github.com/meetjestad/go-provision"
	"github.com/meetjestad/go-provision/optbytes"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type dumpConfig struct {
	rootConfig *rootConfig
	out        io.Writer
}

func (c *dumpConfig) Exec(ctx context.Context, _ []string) error {
	logger := newLogger()
	tool, err := newTool(ctx, c.rootConfig, logger, false)
	if err != nil {
		return err
	}

	region := provision.RegionOption
	p, err := tool.Upload(ctx, region.Alt, region.Base, 3*optbytes.EncodedWordSize)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, hex.Dump(p))

	words, err := optbytes.Decode(p)
	if err != nil {
		return err
	}
	for i, w := range words {
		fmt.Fprintf(c.out, "word %d: %#08x\n", i, w)
	}
	return nil
}

func newDumpCmd(rootConfig *rootConfig, out io.Writer) *ffcli.Command {
	cfg := dumpConfig{rootConfig: rootConfig, out: out}

	fs := flag.NewFlagSet("mjsprov dump", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "dump",
		ShortUsage: "mjsprov dump [flags]",
		ShortHelp:  "Read back and decode the option bytes of a connected station.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
