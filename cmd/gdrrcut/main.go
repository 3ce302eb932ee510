// gdrrcut — Goal-Driven Ruin & Recreate guillotine-cut optimiser.
//
// Solves the two-stage guillotine bin-packing problem over a catalog of
// part demands and stock sheets, minimising consumed sheet value and
// maximising usable leftover value.
//
// Usage:
//
//	gdrrcut <input.json> <config.json> [output.json] [output.html]
package main

import "github.com/piwi3910/gdrrcut/internal/cli"

func main() {
	cli.Execute()
}
