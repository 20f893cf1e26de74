// Entrypoint that delegates to the Cobra root command in cmd/root.go.

package main

import (
	"github.com/dvrpsim/dvrpsim/cmd"
)

func main() {
	cmd.Execute()
}
