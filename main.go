package main

import "github.com/chriserin/stepx/cmd"

func main() {
	cmd.Execute()
}
