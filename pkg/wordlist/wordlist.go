// Package wordlist loads brute-force candidate labels.
//
// A wordlist is a plain text file with one label per line. Surrounding
// whitespace is trimmed, blank lines and lines starting with '#' are
// ignored. The order of the file is preserved.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrSourceNotFound is returned when the wordlist path does not exist.
var ErrSourceNotFound = errors.New("wordlist not found")

// Load reads the candidates from the file at path.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open wordlist: %w", err)
	}
	defer file.Close()

	candidates, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not read wordlist %s: %w", path, err)
	}
	return candidates, nil
}

// ParseReader reads candidates line by line from reader.
func ParseReader(reader io.Reader) ([]string, error) {
	var candidates []string

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		candidates = append(candidates, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}
