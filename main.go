package main

import (
	"opendwg/cli"
)

func main() {
	cli.Start()
}
