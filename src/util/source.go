// source.go reads Crux source text from disk for the frontend to tokenize and parse.

package util

import "os"

// ReadSource reads the whole contents of the source file named by path.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
