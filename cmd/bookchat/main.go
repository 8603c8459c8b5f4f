// Command bookchat is a terminal client for the bookstore assistant.
package main

import "github.com/diogo/bookchat/internal/commands"

func main() {
	commands.Execute()
}
