package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextParser handles plain text scripts. Lines are kept as written, including
// runs of blank lines.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Source, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	src := &Source{Title: baseTitle(filename)}
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		src.Lines = append(src.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return src, nil
}
