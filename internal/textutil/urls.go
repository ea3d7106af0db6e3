// Package textutil provides text processing helpers shared by the parser,
// the feature extractor and the classifier.
package textutil

import (
	"regexp"
)

// URLPattern matches http and https URLs embedded in arbitrary text. Every
// component that needs URL extraction goes through this single pattern.
var URLPattern = regexp.MustCompile(`https?://(?:[a-zA-Z0-9$-_@.&+!*(),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// ExtractURLs returns all URL matches in order of appearance, without
// deduplication
func ExtractURLs(text string) []string {
	return URLPattern.FindAllString(text, -1)
}
