package main

import "github.com/rabidaudio/flashgate/cmd"

func main() {
	cmd.Execute()
}
