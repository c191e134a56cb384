package extract

import "os"

// TxtExtractor reads plain text files.
type TxtExtractor struct{}

// ExtractText returns the file contents as-is.
func (e *TxtExtractor) ExtractText(path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return failed()
	}
	return dataOrEmpty(string(content))
}
