// rttigen is a code generation tool that reads Go type declarations marked
// with the //rtti:derive directive and writes, for each of them, an RTTI
// method describing the type's fields at run time.
//
// Usage:
//
//	go run github.com/mlwelles/rttigen [flags] [packages]
//
// When invoked via go:generate (the typical case), it uses the current working
// directory as the target package.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mlwelles/rttigen/cli"
)

func main() {
	if err := cli.RootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rttigen: %v\n", err)
		os.Exit(1)
	}
}
