package main

import "lentiplate/cmd"

func main() {
	cmd.Execute()
}
