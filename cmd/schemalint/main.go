// Package main provides the schemalint CLI.
//
// schemalint loads schema declaration YAML files and validates them:
// duplicate model names, attribute casing, sequence cardinality,
// nested model references and reference cycles. It exits non-zero when
// any file is invalid, so it slots into CI next to go vet.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"

	"wiremap/schema"
)

func main() {
	dump := flag.Bool("dump", false, "dump the normalized declarations of each valid file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: schemalint [-dump] <schema.yaml> [...]")
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	failed := false
	for _, path := range flag.Args() {
		f, err := schema.LoadFile(path)
		if err != nil {
			log.Error("load failed", "file", path, "err", err)
			failed = true
			continue
		}

		if err := schema.ValidateDecls(f.Models); err != nil {
			log.Error("invalid schema", "file", path, "err", err)
			failed = true
			continue
		}

		log.Info("schema ok", "file", path, "version", f.Version, "models", len(f.Models))

		if *dump {
			spew.Fdump(os.Stdout, f)
		}
	}

	if failed {
		os.Exit(1)
	}
}
