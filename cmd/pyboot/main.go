// SPDX-License-Identifier: MPL-2.0

// Command pyboot prepares an isolated Python environment for a project
// and launches its entry point.
package main

import "pyboot/internal/cli"

func main() {
	cli.Execute()
}
