// Command ingest walks a raw-data directory and loads every document into
// the configured vector store.
package main

import (
	"os"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/vars"
)

func main() {
	logging.Init(logging.ParseLevel(vars.LOG_LEVEL), vars.LOG_FORMAT)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
