// Package cmd provides the flashgate command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "flashgate",
	Short: "flashgate mediates raw flash writes and page erases through a " +
		"validated, single-operation gate.",
}

var image string

func init() {
	rootCmd.PersistentFlags().StringVar(&image, "image", "",
		"flash image file (default $FLASHGATE_IMAGE)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// Optional .env for defaults such as FLASHGATE_IMAGE.
	_ = godotenv.Load()
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func imagePath() (string, error) {
	if image != "" {
		return image, nil
	}
	if path := os.Getenv("FLASHGATE_IMAGE"); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("no image specified: set --image or FLASHGATE_IMAGE")
}
