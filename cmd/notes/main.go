// Command notes is a terminal client for the notes API.
package main

import (
	"os"
)

var version = "dev"

func main() {
	if err := Execute(version); err != nil {
		os.Exit(1)
	}
}
