package main

import (
	"log"

	"github.com/thiagokokada/gitcmd/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitcmd: %v", err)
	}
}
