package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rabidaudio/flashgate/fileflash"
	"github.com/rabidaudio/flashgate/flash"
)

var eraseCmd = &cobra.Command{
	Use:   "erase OFFSET",
	Short: "Erase the page at byte OFFSET (must be page-aligned)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad offset %q: %w", args[0], err)
		}
		return runErase(offset)
	},
}

func runErase(offset int) error {
	path, err := imagePath()
	if err != nil {
		return err
	}
	dev, err := fileflash.Open(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	gate := flash.NewGate(dev, flash.NewGrants())
	done := make(chan error, 1)
	err = gate.Subscribe(self, flash.SubscribeDone, func(status error, _, _ int) {
		done <- status
	})
	if err != nil {
		return err
	}
	if _, err := gate.Command(self, flash.CmdErase, offset); err != nil {
		return err
	}
	return <-done
}

func init() {
	rootCmd.AddCommand(eraseCmd)
}
