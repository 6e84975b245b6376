package main

import "github.com/mkrebs/padwatch/cmd"

func main() {
	cmd.Execute()
}
