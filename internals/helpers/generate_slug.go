package helper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const DefaultSlugMaxLen = 60

var reDash = regexp.MustCompile(`-+`)

// GenerateSlug menormalkan string menjadi slug:
// - NFKD lalu buang tanda diakritik (é -> e)
// - lower-case, non-alnum jadi "-"
// - collapse "-" beruntun, trim di kedua ujung
func GenerateSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(norm.NFKD.String(s)))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark, dibuang
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(reDash.ReplaceAllString(b.String(), "-"), "-")
	return cutToLen(out, DefaultSlugMaxLen)
}

// cutToLen memotong string agar panjangnya <= n, lalu trim "-"
func cutToLen(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return strings.Trim(s, "-")
	}
	return strings.Trim(s[:n], "-")
}
