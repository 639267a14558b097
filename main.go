package main

import "github.com/houghtp/terra-automation-platform-sub005/cmd"

func main() {
	cmd.Execute()
}
