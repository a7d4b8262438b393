package cmd

import (
	"fmt"
	"os"
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// The last line names the failing stage and its raw remote output.
		_, _ = fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
		return
	}
}
