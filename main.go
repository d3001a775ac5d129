package main

import "github.com/naka-gawa/gh-search/cmd"

func main() {
	cmd.Execute()
}
