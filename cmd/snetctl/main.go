// snetctl -- CLI client for the snet daemon's control plane.
package main

import (
	"github.com/jesse99/snet/cmd/snetctl/commands"
)

func main() {
	commands.Execute()
}
