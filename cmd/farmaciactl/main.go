package main

import "github.com/jhoicas/farmacia-api/cmd/farmaciactl/commands"

func main() {
	commands.Execute()
}
