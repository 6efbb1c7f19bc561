package main

import "github.com/benoctopus/devflow/cmd"

func main() {
	cmd.Execute()
}
