package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rabidaudio/flashgate/img"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the root directory of a formatted image",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := imagePath()
		if err != nil {
			return err
		}
		names, err := img.List(path)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
