package main

import "github.com/KaramelBytes/splitcmp-cli/cmd"

func main() {
	cmd.Execute()
}
