/*
mjsprov initializes Meetjestad sensor stations.

It generates a credentials block, flashes it together with write protecting
option bytes through dfu-util and registers the station on The Things
Network using ttn-lw-cli.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	out := os.Stdout

	rootCmd, cfg := newRootCmd()
	rootCmd.Subcommands = []*ffcli.Command{
		newProvisionCmd(cfg),
		newUnprotectCmd(cfg),
		newDumpCmd(cfg, out),
		newListCmd(cfg, out),
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		var num = 0
		for range c {
			num += 1
			if num >= 3 {
				os.Exit(1)
			} else {
				cancel()
			}
		}
	}()

	if err := rootCmd.ParseAndRun(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "%s: cancelled\n", rootCmd.Name)
		} else {
			libPrefix := "provision: "
			msg := strings.TrimPrefix(err.Error(), libPrefix)
			fmt.Fprintf(os.Stderr, "%s: %s\n", rootCmd.Name, msg)
		}
		os.Exit(1)
	}
}
