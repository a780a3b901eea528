package main

import "github.com/shl211/Parallel-Lid-Cavity-Fluid-Solver/cmd"

func main() {
	cmd.Execute()
}
