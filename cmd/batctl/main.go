// Command batctl queries the BatAudit API and manages dashboard jobs from the
// terminal.
package main

import (
	"os"

	"github.com/bataudit/dashboard/cmd/batctl/cli"
)

func main() {
	os.Exit(cli.Execute())
}
