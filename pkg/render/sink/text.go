package sink

import (
	"bytes"
	"encoding/xml"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// badgeColors is the palette for markers without a logo.
var badgeColors = []string{
	"#1f4e79", "#2e75b6", "#c55a11", "#548235",
	"#7030a0", "#bf8f00", "#2f5597", "#833c0b",
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// initials returns up to two uppercase letters taken from the first words
// of name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '.'
	}) {
		if i := strings.IndexFunc(w, isAlnum); i >= 0 {
			r, _ := utf8.DecodeRuneInString(w[i:])
			out = append(out, unicode.ToUpper(r))
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// truncate shortens s to at most n runes, marking the cut with "..".
func truncate(s string, n int) string {
	if n < 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-2]) + ".."
}

// badgeColor picks a stable palette entry for id.
func badgeColor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return badgeColors[h.Sum32()%uint32(len(badgeColors))]
}
