package main

import (
	"github.com/rz1986/gameportal/internal/cli"
)

func main() {
	cli.Execute()
}
