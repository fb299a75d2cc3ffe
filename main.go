package main

import (
	"log"

	"github.com/Rapid-Vision/slgen/cmd"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
	log.SetFlags(0)
}

func main() {
	cmd.Execute()
}
