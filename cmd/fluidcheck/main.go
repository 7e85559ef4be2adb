package main

import "github.com/aalvaropc/fluidcheck/internal/cli"

func main() {
	cli.Execute()
}
