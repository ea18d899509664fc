// Package wordlist loads infinitive lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed verbs.txt
var defaultVerbs string

// Default returns the built-in list of regular infinitives.
func Default() []string {
	verbs, err := readVerbs(strings.NewReader(defaultVerbs))
	if err != nil {
		panic(fmt.Sprintf("built-in verb list: %v", err))
	}
	return verbs
}

// LoadVerbs reads one infinitive per line from the provided file path.
// Blank lines and lines starting with # are skipped; other lines must pass IsRegularInfinitive.
func LoadVerbs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only verb list.
			_ = cerr
		}
	}()
	return readVerbs(file)
}

func readVerbs(r io.Reader) ([]string, error) {
	var verbs []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		if !IsRegularInfinitive(word) {
			return nil, fmt.Errorf("line %d: %q is not an -ar/-er/-ir infinitive", line, word)
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		verbs = append(verbs, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(verbs) == 0 {
		return nil, fmt.Errorf("verb list is empty")
	}
	return verbs, nil
}
