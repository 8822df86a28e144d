package main

import "github.com/apisurface/distill/internal/cli"

func main() {
	cli.Execute()
}
