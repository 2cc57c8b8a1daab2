// Command tracker is an offline-first terminal client for the project
// tracker API.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
