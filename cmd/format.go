package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rabidaudio/flashgate/img"
)

var (
	formatLabel string
	formatSize  int64
	formatBare  bool
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Create a flash image, FAT32-formatted unless --bare",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := imagePath()
		if err != nil {
			return err
		}
		if formatBare {
			return img.Create(path, formatSize)
		}
		return img.Format(path, formatSize, formatLabel)
	},
}

func init() {
	formatCmd.Flags().StringVar(&formatLabel, "label", "FLASHGATE", "volume label")
	formatCmd.Flags().Int64Var(&formatSize, "size", img.DiskSize, "image size in bytes (whole pages)")
	formatCmd.Flags().BoolVar(&formatBare, "bare", false, "skip the MBR and filesystem, just erased pages")
	rootCmd.AddCommand(formatCmd)
}
