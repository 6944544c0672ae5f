package main

import "github.com/frgrisk/cog/cmd"

func main() {
	cmd.Execute()
}
