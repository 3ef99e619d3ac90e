package main

import (
	"context"
	"errors"
	"flag"
	"strings"

	provision "github.com/meetjestad/go-provision"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type provisionConfig struct {
	rootConfig *rootConfig

	board        string
	id           int
	flashFile    string
	optionFile   string
	skipFlash    bool
	skipRegister bool
}

func (c *provisionConfig) Exec(ctx context.Context, _ []string) error {
	if c.board == "" {
		return errors.New("-board is required, one of: " + strings.Join(provision.BoardNames(), ", "))
	}
	if c.id <= 0 {
		return errors.New("-id is required and must be positive")
	}

	logger := newLogger()
	tool, err := newTool(ctx, c.rootConfig, logger, !c.skipFlash)
	if err != nil {
		return err
	}

	return provision.Provision(ctx, provision.Config{
		Board:        c.board,
		ID:           c.id,
		FlashFile:    c.flashFile,
		OptionFile:   c.optionFile,
		SkipFlash:    c.skipFlash,
		SkipRegister: c.skipRegister,
		Tool:         tool,
		Registrar:    &provision.Registrar{Path: c.rootConfig.ttnCLI, Log: logger},
		Log:          logger,
	})
}

func newProvisionCmd(rootConfig *rootConfig) *ffcli.Command {
	cfg := provisionConfig{rootConfig: rootConfig}

	fs := flag.NewFlagSet("mjsprov provision", flag.ExitOnError)
	fs.StringVar(&cfg.board, "board", "", "board to flash, one of: "+strings.Join(provision.BoardNames(), ", "))
	fs.IntVar(&cfg.id, "id", 0, "station id to flash; also used as the device EUI")
	fs.StringVar(&cfg.flashFile, "flash-file", "", "write the flash image to this file instead of an automatic temporary file")
	fs.StringVar(&cfg.optionFile, "option-file", "", "write the option bytes to this file instead of an automatic temporary file")
	fs.BoolVar(&cfg.skipFlash, "skip-flash", false, "skip the actual flashing, just show the commands that would have run")
	fs.BoolVar(&cfg.skipRegister, "skip-register", false, "skip the actual TTN registration, just show the command that would have run")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "provision",
		ShortUsage: "mjsprov provision -board NAME -id ID [flags]",
		ShortHelp:  "Flash credentials into a station and register it on TTN.",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}
}
