// Command stagebench runs the benchmark suite described by a stagebench.yaml file.
package main

import (
	"os"

	"github.com/AndreyAkinshin/stagebench/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
