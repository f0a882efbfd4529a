package dialect

import "strings"

// scanner walks SQL text and reports bytes that sit outside quoted text
// and at a given parenthesis depth. Single-quoted text (a doubled single
// quote escapes one), double-quoted identifiers and backquoted
// identifiers are skipped.
type scanner struct {
	s string
}

// each calls fn for every byte outside quotes with the current
// parenthesis depth. Returning false stops the walk.
func (sc scanner) each(fn func(i, depth int) bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(sc.s); i++ {
		c := sc.s[i]
		if quote != 0 {
			if c == quote {
				if quote == '\'' && i+1 < len(sc.s) && sc.s[i+1] == '\'' {
					i++
					continue
				}
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			continue
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if !fn(i, depth) {
			return
		}
	}
}

// splitSelectItems splits arg on commas at parenthesis depth zero and
// trims the parts. Empty parts are dropped.
func splitSelectItems(arg string) []string {
	var items []string
	start := 0
	scanner{arg}.each(func(i, depth int) bool {
		if depth == 0 && arg[i] == ',' {
			if part := strings.TrimSpace(arg[start:i]); part != "" {
				items = append(items, part)
			}
			start = i + 1
		}
		return true
	})
	if part := strings.TrimSpace(arg[start:]); part != "" {
		items = append(items, part)
	}
	return items
}

// hasTopLevelKeyword reports whether the space-separated keyword sequence
// (e.g. "order by") occurs at depth zero, outside quotes, on word
// boundaries. Matching is case-insensitive.
func hasTopLevelKeyword(sql, keyword string) bool {
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 0 {
		return false
	}
	lower := strings.ToLower(sql)
	found := false
	scanner{sql}.each(func(i, depth int) bool {
		if depth != 0 || !wordAt(lower, i, words[0]) {
			return true
		}
		pos := i + len(words[0])
		for _, w := range words[1:] {
			for pos < len(lower) && isSpace(lower[pos]) {
				pos++
			}
			if !wordAt(lower, pos, w) {
				return true
			}
			pos += len(w)
		}
		found = true
		return false
	})
	return found
}

func wordAt(s string, i int, w string) bool {
	if !strings.HasPrefix(s[i:], w) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	end := i + len(w)
	return end >= len(s) || !isWordByte(s[end])
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
