package main

import (
	"os"

	"static-deploy/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
