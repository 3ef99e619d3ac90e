package main

import (
	"context"
	"flag"

	provision "github.com/meetjestad/go-provision"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type unprotectConfig struct {
	rootConfig *rootConfig

	optionFile string
	skipFlash  bool
}

func (c *unprotectConfig) Exec(ctx context.Context, _ []string) error {
	logger := newLogger()
	tool, err := newTool(ctx, c.rootConfig, logger, !c.skipFlash)
	if err != nil {
		return err
	}

	return provision.Unprotect(ctx, provision.Config{
		OptionFile: c.optionFile,
		SkipFlash:  c.skipFlash,
		Tool:       tool,
		Log:        logger,
	})
}

func newUnprotectCmd(rootConfig *rootConfig) *ffcli.Command {
	cfg := unprotectConfig{rootConfig: rootConfig}

	fs := flag.NewFlagSet("mjsprov unprotect", flag.ExitOnError)
	fs.StringVar(&cfg.optionFile, "option-file", "", "write the option bytes to this file instead of an automatic temporary file")
	fs.BoolVar(&cfg.skipFlash, "skip-flash", false, "skip the actual flashing, just show the command that would have run")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "unprotect",
		ShortUsage: "mjsprov unprotect [flags]",
		ShortHelp:  "Write option bytes without write protection, so a station can be reflashed.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
