// tripfilter reduces raw trip-planner itinerary sets to a presentable result.
package main

import (
	"os"

	"github.com/hupe1980/tripfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
