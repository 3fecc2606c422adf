package main

import (
	"os"

	"github.com/aneroid/ergast-f1db-extra/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
