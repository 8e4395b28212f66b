package main

import (
	"os"

	"github.com/netlink-io/khatabook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
