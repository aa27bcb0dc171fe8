package suggest

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseStatus tags the outcome of parsing generator output.
type ParseStatus int

const (
	ParseOK ParseStatus = iota
	ParseMalformed
)

func (s ParseStatus) String() string {
	if s == ParseOK {
		return "ok"
	}
	return "malformed"
}

// ParseResult is either OK with the usable suggestions or Malformed.
// An OK result may still carry zero suggestions when the array held no
// non-empty strings.
type ParseResult struct {
	Status      ParseStatus
	Suggestions []string
}

func (r ParseResult) OK() bool {
	return r.Status == ParseOK
}

var malformed = ParseResult{Status: ParseMalformed}

// ParseSuggestions reads a JSON array of strings out of free text. The whole
// text is tried first, then the first balanced [...] substring. Non-string and
// blank entries are dropped.
func ParseSuggestions(text string) ParseResult {
	text = strings.TrimSpace(text)

	var arr gjson.Result
	switch {
	case gjson.Valid(text):
		arr = gjson.Parse(text)
	default:
		sub, ok := ExtractBalanced(text, '[', ']')
		if !ok || !gjson.Valid(sub) {
			return malformed
		}
		arr = gjson.Parse(sub)
	}
	if !arr.IsArray() {
		return malformed
	}

	out := make([]string, 0)
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			if s := strings.TrimSpace(v.Str); s != "" {
				out = append(out, s)
			}
		}
		return true
	})
	return ParseResult{Status: ParseOK, Suggestions: out}
}

// ExtractBalanced returns the substring starting at the first openCh byte and
// ending at its matching closeCh byte. Brackets inside JSON strings are ignored.
func ExtractBalanced(text string, openCh, closeCh byte) (string, bool) {
	start := strings.IndexByte(text, openCh)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
