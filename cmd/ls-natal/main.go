// Command ls-natal computes natal charts, transits, synastry and fortunes
// from the terminal or over HTTP.
package main

import "github.com/litescript/ls-natal/internal/cli"

func main() {
	cli.Execute()
}
