package main

import "github.com/theirongolddev/pickplan/cmd"

func main() {
	cmd.Execute()
}
