package bot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadTokens reads one bot token per line from path. Surrounding whitespace
// is trimmed and blank lines are skipped.
func LoadTokens(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tokens file: %w", err)
	}
	defer f.Close()

	tokens, err := ParseTokens(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokens file %s: %w", path, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("tokens file %s contains no tokens", path)
	}
	return tokens, nil
}

// ParseTokens returns the non-blank lines of r in order.
func ParseTokens(r io.Reader) ([]string, error) {
	var tokens []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			tokens = append(tokens, line)
		}
	}
	return tokens, scanner.Err()
}
