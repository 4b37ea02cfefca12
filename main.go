package main

import "github.com/naka-gawa/commit-race/cmd"

func main() {
	cmd.Execute()
}
