package main

import (
	"github.com/massimoalbarello/consensus-on-demand/cmd/bench-analyzer/cmd"
)

func main() {
	cmd.Execute()
}
