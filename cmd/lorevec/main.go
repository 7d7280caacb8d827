package main

import "lorevec/internal/cli"

func main() {
	cli.Execute()
}
