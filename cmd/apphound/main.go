package main

import "github.com/grahamcooke/apphound/internal/cli"

func main() {
	cli.Execute()
}
