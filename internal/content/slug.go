package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EmptySlug is returned when nothing usable survives slugification.
const EmptySlug = "n-a"

// asciiFold covers letters that NFKD does not decompose into an ASCII base.
var asciiFold = map[rune]string{
	'ß': "ss", 'ẞ': "SS",
	'æ': "ae", 'Æ': "AE",
	'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O",
	'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D",
	'þ': "th", 'Þ': "TH",
	'ł': "l", 'Ł': "L",
	'ħ': "h", 'Ħ': "H",
	'ı': "i",
	'ŋ': "ng", 'Ŋ': "NG",
	'ĸ': "q",
	'ſ': "s",
}

// Slugify turns a title into a filename stem made of [a-z0-9-]. It never
// fails: input that leaves nothing behind maps to EmptySlug.
func Slugify(text string) string {
	text = norm.NFC.String(text)
	text = hyphenateNonAlnum(text)
	text = strings.Trim(text, "-")
	text = transliterate(text)
	text = strings.ToLower(text)
	text = keepSlugChars(text)
	// Transliteration can drop runes next to hyphens, so squeeze once more.
	text = hyphenateNonAlnum(text)
	text = strings.Trim(text, "-")
	if text == "" {
		return EmptySlug
	}
	return text
}

// hyphenateNonAlnum replaces every run of runes that are neither letters nor
// digits with a single hyphen.
func hyphenateNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('-')
			inRun = true
		}
	}
	return b.String()
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

func transliterate(s string) string {
	decomposed, _, err := transform.String(stripMarks, s)
	if err != nil {
		decomposed = s
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
			continue
		}
		if folded, ok := asciiFold[r]; ok {
			b.WriteString(folded)
		}
	}
	return b.String()
}

func keepSlugChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		case c == '_':
			b.WriteByte('-')
		}
	}
	return b.String()
}
