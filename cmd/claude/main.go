package main

import (
	"os"

	"github.com/luxai/claude-go/claude"
)

func main() {
	os.Exit(claude.CLI(os.Args[1:]))
}
