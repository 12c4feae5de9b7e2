package main

import (
	"github.com/pacerlabs/pacer-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
