package main

import "github.com/cleanbrook/watertrend/cmd"

func main() {
	cmd.Execute()
}
