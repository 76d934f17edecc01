package main

import "github.com/gb714us/csharplang/pkg/cli"

func main() {
	cli.Run()
}
