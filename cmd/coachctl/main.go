package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd, cctx := newRootCommand(nil)
	if err := execute(context.Background(), cmd, cctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
