package main

import (
	"github.com/joho/godotenv"
	"github.com/pressroom/cmd/pressctl/commands"
)

func main() {
	_ = godotenv.Load()
	commands.Execute()
}
