package main

import "github.com/diogo/ragchat/internal/commands"

func main() {
	commands.Execute()
}
