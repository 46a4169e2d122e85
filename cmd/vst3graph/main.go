// Command vst3graph inspects the speaker arrangement codec and runs scripted
// edits against a live audio graph.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
