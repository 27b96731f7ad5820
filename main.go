package main

import "github.com/KaramelBytes/bidopt-cli/cmd"

func main() {
	cmd.Execute()
}
