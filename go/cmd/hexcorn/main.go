package main

import (
	"github.com/hexcorn/hexcorn/go/cmd"
)

func main() { cmd.Main() }
