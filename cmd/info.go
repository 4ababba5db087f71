package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabidaudio/flashgate/clock"
	"github.com/rabidaudio/flashgate/flash"
	"github.com/rabidaudio/flashgate/memflash"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print flash geometry and policy constants",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Geometry is fixed, but go through the query selectors so this
		// exercises the same surface clients see.
		gate := flash.NewGate(memflash.New(1, clock.Wall{}), flash.NewGrants())
		names := []string{
			"word size (bytes)",
			"page size (bytes)",
			"max writes per page",
			"max erase cycles",
			"max write length (bytes)",
		}
		for sub, name := range names {
			v, err := gate.Command(0, flash.CmdGetInfo, sub)
			if err != nil {
				return err
			}
			fmt.Printf("%s:\t%d\n", name, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
