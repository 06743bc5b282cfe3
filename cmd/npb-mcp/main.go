package main

import "github.com/pfrederiksen/npb-mcp/internal/cli"

func main() {
	cli.Execute()
}
