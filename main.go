package main

import (
	"os"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/server"
)

func main() {
	core.ParseFlags()
	os.Exit((&server.EntryPoint{}).Run())
}
