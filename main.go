package main

import "cronoscope/internal/cli"

func main() {
	cli.Execute()
}
