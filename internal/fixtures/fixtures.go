package fixtures

import (
	"fmt"
	"strings"
)

var words = []string{
	"apple", "avocado", "banana", "blueberry", "cherry", "coconut", "date", "dragonfruit", "elderberry",
	"fig", "grape", "guava", "honeydew", "kiwi", "lemon", "lime", "mango", "nectarine", "orange",
	"papaya", "peach", "pear", "plum", "quince", "raspberry", "strawberry", "tangerine", "watermelon",
}

// Text returns the demo text for the nth generated record. Every seventh record is long enough to
// wrap in a narrow terminal.
func Text(n int) string {
	word := words[n%len(words)]
	text := fmt.Sprintf("%s %04d", word, n)
	if n%7 == 3 {
		var extra []string
		for i := 1; i <= 12; i++ {
			extra = append(extra, words[(n+i)%len(words)])
		}
		text += " with " + strings.Join(extra, " and ")
	}
	return text
}

// Texts returns the texts of the first count generated records
func Texts(count int) []string {
	res := make([]string, count)
	for i := range res {
		res[i] = Text(i)
	}
	return res
}
