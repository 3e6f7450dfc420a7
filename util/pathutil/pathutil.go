package pathutil

import (
	"strings"
	"unicode/utf8"

	"github.com/sagan/laras/util/stringutil"
)

const FILENAME_MAX_LENGTH = 240

// Invalid filename characters in Windows (NTFS), plus path separators.
var FilenameRestrictedCharacterReplacement = map[rune]rune{
	'*':  '＊',
	':':  '：',
	'<':  '＜',
	'>':  '＞',
	'|':  '｜',
	'?':  '？',
	'"':  '＂',
	'/':  '／',
	'\\': '＼',
}

// Replace invalid Windows filename chars to alternatives. E.g. '/' => '／', 	'?' => '？'
var FilenameRestrictedCharacterReplacer *strings.Replacer

func init() {
	args := []string{}
	for old, new := range FilenameRestrictedCharacterReplacement {
		args = append(args, string(old), string(new))
	}
	FilenameRestrictedCharacterReplacer = strings.NewReplacer(args...)
}

// Return a cleaned safe base filename (without path).
// 1. Replace invalid chars with alternatives (e.g. "?" => "？").
// 2. CleanTitle (clean \r, \n and other invisiable chars then TrimSpace).
// 3. Clean trailing dot (".") (Windows does NOT allow dot in the end of filename).
// 4. Truncate name to at most 240 (UTF-8 string) bytes.
func CleanBasename(name string) string {
	name = FilenameRestrictedCharacterReplacer.Replace(name)
	name = stringutil.CleanTitle(name)
	name = strings.TrimRight(name, ". ")
	return prefixInBytes(name, FILENAME_MAX_LENGTH)
}

// DocumentFilename returns the default output filename for a document title, e.g.
// ("Malin Kundang: Part 1", ".json") => "Malin Kundang： Part 1.json".
// An empty title falls back to fallback.
func DocumentFilename(title, fallback, ext string) string {
	base := CleanBasename(title)
	if base == "" {
		base = fallback
	}
	return prefixInBytes(base, FILENAME_MAX_LENGTH-len(ext)) + ext
}

// Return prefix of str that is at most max bytes encoded in UTF-8, never splitting a rune.
func prefixInBytes(str string, max int) string {
	if len(str) <= max {
		return str
	}
	end := 0
	for i, r := range str {
		if i+utf8.RuneLen(r) > max {
			break
		}
		end = i + utf8.RuneLen(r)
	}
	return str[:end]
}
