package main

import "github.com/healthycity/compliance/cmd"

func main() {
	cmd.Execute()
}
