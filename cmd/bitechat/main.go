package main

import "github.com/speedybites/bitechat/internal/commands"

func main() {
	commands.Execute()
}
