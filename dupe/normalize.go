package dupe

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const copySuffix = " copy"

// Decopify strips the artifacts that file managers add to copied files, so
// "report copy.pdf", "report (1).pdf" and "report.pdf" share the key "report.pdf".
//
// The stem is truncated at the first " copy" found after its first character,
// then trailing parenthesized groups are removed together with the character
// preceding each "(". The content of the parentheses is not inspected:
// "photo (final).jpg" becomes "photo.jpg" just like "photo (1).jpg".
// The extension is always kept.
func Decopify(name string) string {
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	if stem == "" {
		// dotfile such as ".bashrc" has no extension of its own
		stem, ext = name, ""
	}

	if len(stem) > 1 {
		if i := strings.Index(stem[1:], copySuffix); i >= 0 {
			stem = stem[:i+1]
		}
	}

	for {
		open := strings.LastIndexByte(stem, '(')
		if open <= 0 || open == len(stem)-1 {
			break
		}
		_, n := utf8.DecodeLastRuneInString(stem[:open])
		stem = stem[:open-n]
	}

	return stem + ext
}
