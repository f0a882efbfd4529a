// Command exprsql renders expression documents as dialect SQL.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/exprsql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "exprsql:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
