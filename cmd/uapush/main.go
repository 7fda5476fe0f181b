package main

import (
	"fmt"
	"os"

	"github.com/kart-io/uapush/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "uapush:", err)
		os.Exit(1)
	}
}
