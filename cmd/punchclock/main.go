// Command punchclock records punch-ins and punch-outs and computes pay.
package main

import (
	"os"

	"github.com/ksteinfeldt/punchclock/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
