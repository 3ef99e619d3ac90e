package main

import (
	"context"
	"log"
	"os"

	provision "github.com/meetjestad/go-provision"
	"github.com/meetjestad/go-provision/dfu"
)

// newLogger returns the progress logger shared by all subcommands.
func newLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

// newTool builds the dfu-util transport. Capabilities are only detected
// when the tool will actually run, since detection spawns a process.
func newTool(ctx context.Context, c *rootConfig, logger provision.Logger, detect bool) (*dfu.Tool, error) {
	tool := &dfu.Tool{
		Path:   c.dfuUtil,
		Device: c.device,
		Log:    logger,
	}
	if detect {
		caps, err := dfu.DetectCapabilities(ctx, c.dfuUtil)
		if err != nil {
			return nil, err
		}
		tool.Caps = caps
	}
	return tool, nil
}
