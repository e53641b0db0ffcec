package main

import "github.com/go-arrower/keeper/cmd"

func main() {
	cmd.Execute()
}
