package main

import "spaces-sync/cmd"

func main() {
	cmd.Execute()
}
