package main

import "github.com/MIDAS-Toolchain/Card-Fifty-two-sub000/cmd"

func main() {
	cmd.Execute()
}
