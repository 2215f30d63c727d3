// Package lang classifies tokens by writing script.
package lang

// Class identifies one language class of a classifier's closed value set.
type Class string

// Classes produced by the default Arabic/Latin classifier.
const (
	Arabic Class = "ar"
	Latin  Class = "en"
)

var classNames = map[Class]string{
	Arabic: "Arabic",
	Latin:  "English",
}

// Name returns a human-readable label for the class.
func (c Class) Name() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return string(c)
}

// Classifier assigns every token to exactly one class of a closed set.
// Classification depends only on token content, so the same token always
// maps to the same class.
type Classifier interface {
	// Classify returns the class of a non-empty token.
	Classify(token string) Class
	// Classes returns the full value set in report order.
	Classes() []Class
}

type arabicLatin struct{}

// ArabicLatin returns the default two-class classifier: tokens containing
// at least one Arabic-script rune are Arabic, everything else is Latin.
func ArabicLatin() Classifier {
	return arabicLatin{}
}

func (arabicLatin) Classify(token string) Class {
	for _, r := range token {
		if isArabicRune(r) {
			return Arabic
		}
	}
	return Latin
}

func (arabicLatin) Classes() []Class {
	return []Class{Arabic, Latin}
}

// Covers the Arabic, Arabic Supplement, and Arabic Extended-A blocks.
func isArabicRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0x08A0 && r <= 0x08FF:
		return true
	}
	return false
}
