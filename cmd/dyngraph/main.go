// Package main provides the dyngraph CLI: it trains a small MLP on MNIST
// using the define-by-run autodiff engine.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

const version = "v0.1.0"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "dyngraph: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "dyngraph %s\n", version)
		return nil
	case "train":
		return train(args[1:], stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "dyngraph %s - define-by-run autodiff for Go\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train      Train an MLP on MNIST (see 'dyngraph train -h')")
	fmt.Fprintln(w, "  version    Show version")
}
