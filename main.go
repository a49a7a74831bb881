package main

import "mazflix/cmd"

func main() {
	cmd.Execute()
}
