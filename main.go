// main holds the entry logic for the okrpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/okrpulse/okrpulse/cmd"
	"github.com/okrpulse/okrpulse/internal/iostore"
)

// main is the entry point for the okrpulse analyzer.
func main() {
	cmd.SetStoreManager(iostore.Manager)
	code := run()
	iostore.CloseStores()
	os.Exit(code)
}

// run executes the root command and maps any error to an exit code.
// It exists so CloseStores runs before os.Exit.
func run() int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
