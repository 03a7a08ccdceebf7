// procsim runs replicated queueing-process simulations. All subcommands live
// in cmd/.
package main

import "github.com/procsim/procsim/cmd"

func main() {
	cmd.Execute()
}
