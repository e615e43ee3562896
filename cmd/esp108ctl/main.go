//go:build !test

package main

import (
	"log"

	"github.com/esp108/xtdbg/flag"
)

func main() {
	if err := flag.Parse(); err != nil {
		log.Fatal(err)
	}
}
