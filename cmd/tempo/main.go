package main

import "github.com/tempo-labs/tempo-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
