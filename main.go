package main

import "marklint/src/handler/cli"

func main() {
	cli.Run()
}
