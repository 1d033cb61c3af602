//go:build ignore
// +build ignore

package main

import (
	"log"

	kennel "github.com/mithrel/kennel/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := kennel.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "KENNEL-CLI",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
