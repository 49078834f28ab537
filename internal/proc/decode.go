package proc

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Decode converts captured output to text. Invalid UTF-8 sequences become
// U+FFFD and a leading byte order mark is dropped. It never fails.
func Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}
