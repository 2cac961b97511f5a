package main

import "github.com/masmgr/gitplay-go/cmd"

func main() {
	cmd.Run()
}
