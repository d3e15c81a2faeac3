package main

import "github.com/samsaffron/msgblocks/cmd"

func main() {
	cmd.Execute()
}
