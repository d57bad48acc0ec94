package main

import "github.com/diogo/aura/internal/commands"

func main() {
	commands.Execute()
}
