package main

import "flashdeck/cmd"

func main() {
	cmd.Execute()
}
