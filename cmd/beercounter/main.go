package main

import (
	"os"

	"github.com/mmynk/beercounter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
