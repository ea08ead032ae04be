package match

import (
	"strings"
	"unicode"
)

// identSuffixes are the trailing tokens StripIdentSuffix drops, longest first.
// Short tokens such as "ts" are left alone; they end too many real names.
var identSuffixes = []string{"timestamp", "ids", "utc", "id", "at"}

// NormalizeIdent folds an identifier for comparison: letters are lowercased
// and the separators '_', '-' and ' ' are dropped, so "customer_name",
// "CustomerName" and "customer-name" all become "customername".
func NormalizeIdent(s string) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}

// EqualIdent reports whether two identifiers name the same thing once case
// and separators are ignored ("customer_name" == "CustomerName").
func EqualIdent(a, b string) bool {
	return NormalizeIdent(a) == NormalizeIdent(b)
}

// StripIdentSuffix normalizes s and drops one trailing key or time token
// ("OrderID" -> "order", "CreatedAt" -> "created"). A name that is only the
// token is kept as is.
func StripIdentSuffix(s string) string {
	n := NormalizeIdent(s)

	for _, suffix := range identSuffixes {
		if len(n) > len(suffix) && strings.HasSuffix(n, suffix) {
			return n[:len(n)-len(suffix)]
		}
	}

	return n
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', ' ':
		return true
	default:
		return false
	}
}
