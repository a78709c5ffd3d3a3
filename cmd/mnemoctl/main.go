// ABOUTME: Entry point for mnemoctl CLI
// ABOUTME: Command-line tool for operating the Mnemo capacity broker

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
