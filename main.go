package main

import (
	"github.com/sagan/laras/cmd"
	_ "github.com/sagan/laras/cmd/all"
)

func main() {
	cmd.Execute()
}
