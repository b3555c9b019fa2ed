// Command journal runs the trade journal: an HTTP service for the journal
// UI plus maintenance and scripting commands over the same stores.
package main

import (
	"log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
