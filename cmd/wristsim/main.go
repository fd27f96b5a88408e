// wristsim drives the watch animation core against in-memory scene and
// animation fakes: it dispenses watches to simulated wearers, lets the
// hand pipelines run, and tears everything down again, logging every
// scheduling decision along the way.
package main

import (
	"os"

	"github.com/go-drift/timepiece/cmd/wristsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
