package ingest

import "os"

// TextParser reads plain text files (.txt) verbatim.
type TextParser struct{}

func (TextParser) Parse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
