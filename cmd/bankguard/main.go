package main

import "bankguard/cmd/bankguard/commands"

func main() {
	commands.Execute()
}
