package main

import (
	"github.com/rkall/classkit/cmd/classkit/cmd"
)

func main() {
	cmd.Execute()
}
