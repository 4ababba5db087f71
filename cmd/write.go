package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rabidaudio/flashgate/fileflash"
	"github.com/rabidaudio/flashgate/flash"
)

// The CLI is a single client of its own gate.
const self = flash.ClientID(1)

var writeCmd = &cobra.Command{
	Use:   "write OFFSET FILE",
	Short: "Write the contents of FILE to the flash image at byte OFFSET",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad offset %q: %w", args[0], err)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		return runWrite(offset, data)
	},
}

func runWrite(offset int, data []byte) error {
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

	// Pad to a whole number of words with erased bytes.
	if rem := len(data) % flash.WordSize; rem != 0 {
		pad := make([]byte, flash.WordSize-rem)
		for i := range pad {
			pad[i] = 0xFF
		}
		data = append(data, pad...)
	}

	// The gate takes at most MaxWriteBytes per operation, and only one
	// operation may be in flight, so feed it chunk by chunk.
	for len(data) > 0 {
		n := len(data)
		if n > flash.MaxWriteBytes {
			n = flash.MaxWriteBytes
		}
		if err := gate.Allow(self, flash.AllowInputBuffer, data[:n]); err != nil {
			return err
		}
		if _, err := gate.Command(self, flash.CmdWrite, offset); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return err
		}
		data = data[n:]
		offset += n
	}
	return nil
}

func init() {
	rootCmd.AddCommand(writeCmd)
}
