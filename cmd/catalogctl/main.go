package main

import (
	"github.com/ariefcatur/go-product-reviews/cmd/catalogctl/commands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	commands.Execute()
}
