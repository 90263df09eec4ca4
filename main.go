package main

import "github.com/opsplit/opsplit/cmd"

func main() {
	cmd.Execute()
}
