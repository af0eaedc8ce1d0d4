package main

import (
	"log"

	"github.com/sessionkit/sessionkit-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
