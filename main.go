// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/openlauncher/openlauncher/cmd/openlauncher"

func main() {
	cmd.Execute()
}
