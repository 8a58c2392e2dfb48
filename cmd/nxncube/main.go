// Command nxncube is the command-line interface for the nxncube move engine.
package main

import "github.com/SeamusWaldron/nxncube/internal/cli"

func main() {
	cli.Execute()
}
