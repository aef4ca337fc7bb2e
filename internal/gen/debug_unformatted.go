package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted stores source that gofmt rejected next to the
// intended output as <name>.unformatted.go. Failures here are secondary to
// the formatting error and may be ignored by callers.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}

	name := strings.TrimSuffix(filename, ".go") + ".unformatted.go"

	return os.WriteFile(filepath.Join(outDir, name), content, filePerm)
}
