package main

import "github.com/zkmesh/unistark/cmd"

func main() {
	cmd.Execute()
}
