// Command playfmt formats a plain-text stage play into a DOCX or PDF
// manuscript.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
