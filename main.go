package main

import "pick-reconciler/cmd"

func main() {
	cmd.Execute()
}
