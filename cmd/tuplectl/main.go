// Command tuplectl inspects transport endpoints: it renders, compares and
// hashes them, and selects among the transports of a configuration.
package main

import "os"

func main() {
	os.Exit(NewCLI(os.Stdout, os.Stderr).Run(os.Args[1:]))
}
