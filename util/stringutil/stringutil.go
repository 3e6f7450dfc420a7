package stringutil

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	unicodeEncoding "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// 0xEF, 0xBB, 0xBF
var Utf8bom = []byte{0xEF, 0xBB, 0xBF}

// Key: IANA charset name (case sensitive) used by chardet.
var encodings = map[string]encoding.Encoding{
	"GB-18030":    simplifiedchinese.GB18030,
	"Big5":        traditionalchinese.Big5,
	"EUC-JP":      japanese.EUCJP,
	"ISO-2022-JP": japanese.ISO2022JP,
	"Shift_JIS":   japanese.ShiftJIS,
	"EUC-KR":      korean.EUCKR,
	"UTF-16BE":    unicodeEncoding.UTF16(unicodeEncoding.BigEndian, unicodeEncoding.IgnoreBOM),
	"UTF-16LE":    unicodeEncoding.UTF16(unicodeEncoding.LittleEndian, unicodeEncoding.IgnoreBOM),
}

// Bytes sniffed for charset detection.
const sniffSize = 4096

// GetTextReader returns a reader of input converted to UTF-8 without BOM.
// UTF-8 (with or without BOM) and UTF-16 with BOM are recognized by their marks;
// otherwise the charset is guessed from the first bytes. Unknown charsets are passed through.
func GetTextReader(input io.Reader) io.Reader {
	br := bufio.NewReaderSize(input, sniffSize)
	head, _ := br.Peek(sniffSize)
	switch {
	case bytes.HasPrefix(head, Utf8bom):
		br.Discard(len(Utf8bom))
		return br
	case bytes.HasPrefix(head, []byte{0xFF, 0xFE}), bytes.HasPrefix(head, []byte{0xFE, 0xFF}):
		// BOMOverride picks the UTF-16 byte order from the mark and strips it
		return transform.NewReader(br, unicodeEncoding.BOMOverride(unicodeEncoding.UTF8.NewDecoder()))
	case len(head) == 0 || IsASCII(head) || isValidUTF8(head):
		return br
	}
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil || result == nil {
		return br
	}
	if enc, ok := encodings[result.Charset]; ok {
		return transform.NewReader(br, enc.NewDecoder())
	}
	return br
}

func isValidUTF8(head []byte) bool {
	// the sniffed head may cut a multi-byte rune in half
	for i := 0; i < utf8.UTFMax && len(head) > 0; i++ {
		if utf8.Valid(head) {
			return true
		}
		head = head[:len(head)-1]
	}
	return false
}

// IsASCII reports whether b only contains ASCII bytes.
func IsASCII(b []byte) bool {
	for _, c := range b {
		if c > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// CleanTitle:
// 1. Remove line breaks (replace them with space).
// 2. Clean (Remove invisible chars then TrimSpace).
func CleanTitle(s string) string {
	return Clean(ReplaceNewLinesWithSpace(s))
}

// Clean removes non-graphic (excluding spaces) characters then trims space.
func Clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.TrimSpace(s)
}

// Return prefix of string at most width and actual width.
// ASCII char has 1 width. CJK char has 2 width.
func StringPrefixInWidth(str string, width int) (string, int) {
	strWidth := 0
	sb := &strings.Builder{}
	for _, char := range str {
		runeWidth := runewidth.RuneWidth(char)
		if strWidth+runeWidth > width {
			break
		}
		sb.WriteRune(char)
		strWidth += runeWidth
	}
	return sb.String(), strWidth
}

// Print str in a column of width cells, padded with spaces. Overflowing text is cut.
func PrintStringInWidth(output io.Writer, str string, width int, padRight bool) (remain string) {
	pstr, strWidth := StringPrefixInWidth(str, width)
	remain = str[len(pstr):]
	if padRight {
		pstr += strings.Repeat(" ", width-strWidth)
	} else {
		pstr = strings.Repeat(" ", width-strWidth) + pstr
	}
	fmt.Fprint(output, pstr)
	return
}

// /[\r\n]+/
var newLinesRegex = regexp.MustCompile(`[\r\n]+`)

// Replace one or more consecutive newline characters (\r, \n) with single space.
func ReplaceNewLinesWithSpace(str string) string {
	return newLinesRegex.ReplaceAllString(str, " ")
}
