package textutil

import "strings"

// upperFold handles the Turkish uppercase letters before the generic
// lowercasing pass. Both dotted İ and dotless I collapse to plain "i" so
// that department names typed in any casing compare equal.
var upperFold = strings.NewReplacer(
	"İ", "i",
	"I", "i",
	"Ç", "c",
	"Ş", "s",
	"Ö", "o",
	"Ü", "u",
	"Ğ", "g",
)

var lowerFold = strings.NewReplacer(
	"ı", "i",
	"ç", "c",
	"ş", "s",
	"ö", "o",
	"ü", "u",
	"ğ", "g",
)

// Normalize folds case and Turkish diacritics to ASCII base forms and trims
// surrounding whitespace. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = upperFold.Replace(s)
	s = strings.ToLower(s)
	return lowerFold.Replace(s)
}

// MatchDepartment resolves free user input to a canonical department name.
// Both sides are normalized and a match succeeds if either contains the
// other, so "IT" matches "IT" and "muhasebe departmanı" matches "Muhasebe".
// The first matching department in enumeration order wins.
func MatchDepartment(input string, departments []string) (string, bool) {
	normInput := Normalize(input)
	if normInput == "" {
		return "", false
	}
	for _, dept := range departments {
		normDept := Normalize(dept)
		if strings.Contains(normInput, normDept) || strings.Contains(normDept, normInput) {
			return dept, true
		}
	}
	return "", false
}
