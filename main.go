package main

import "github.com/asyncfuncai/deepwiki-cli/cmd"

func main() {
	cmd.Execute()
}
