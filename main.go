// Command dusage reports the disk usage of directory trees.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/dusage/internal/cli"
)

// version is set at build time.
//
//nolint:gochecknoglobals // Version is set at build time
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		if errors.Is(err, cli.ErrIncomplete) {
			os.Exit(1)
		}

		os.Exit(2)
	}
}
