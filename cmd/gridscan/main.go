// Command gridscan extracts tables from JSON page layouts.
package main

import "github.com/tsawler/gridscan/internal/cli"

func main() {
	cli.Execute()
}
