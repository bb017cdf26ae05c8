package main

import "github.com/ssargent/slotkit/cmd/slotctl/cmd"

func main() {
	cmd.Execute()
}
