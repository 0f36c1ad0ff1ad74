package main

import(
	"fmt"
	"os"

	"github.com/abworrall/compositor/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "compositor: %v\n", err)
		os.Exit(1)
	}
}
