package disperse

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/disperse-validator/internal/lineparser"
)

// ExampleText is the sample buffer shown to operators, one line per
// supported delimiter.
const ExampleText = `0x2b1F577230F4D72B3818895688b66abD9701B4dC=1.41421
0x2b1F577230F4D72B3818895688b66abD9701B4dC,1.41421
0x2b1F577230F4D72B3818895688b66abD9701B4dC 3.14159`

// NumberLines renders the buffer with a right-aligned line-number gutter.
func NumberLines(text string) string {
	lines := lineparser.SplitLines(text)
	width := len(fmt.Sprint(len(lines)))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d | %s", width, line.LineNumber(), line.Text)
	}
	return b.String()
}
