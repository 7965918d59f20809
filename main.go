// SPDX-License-Identifier: MPL-2.0

package main

import cmd "baggage-cli/cmd/baggage"

func main() {
	cmd.Execute()
}
