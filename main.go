package main

import "github.com/brogergvhs/mangagrab/cmd"

func main() {
	cmd.Execute()
}
