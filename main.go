// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/color/clr/cmd/clr"

func main() {
	cmd.Execute()
}
