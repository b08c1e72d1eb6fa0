package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// groups: 1 lower-bound prefix, 2 low, 3 high, 4 plus suffix
	experienceRegex = regexp.MustCompile(`(?i)(?:\b(minimum(?:\s+of)?|min\.?|at\s+least)\s+)?\b(\d{1,2})(?:\s*(?:-|–|—|to)\s*(\d{1,2}))?\s*(\+|plus)?\s*(?:years?|yrs?)\b`)
	spaceRegex      = regexp.MustCompile(`\s+`)
)

// YearsOfExperience returns the first experience requirement found in text,
// normalized to "N", "X-Y" or "N+". It returns "" when nothing matches.
func YearsOfExperience(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	match := experienceRegex.FindStringSubmatch(normalizeText(text))
	if match == nil {
		return ""
	}

	low, err := strconv.Atoi(match[2])
	if err != nil {
		return ""
	}

	//range wins over a lower-bound prefix: "minimum 3-5 years" is "3-5"
	if match[3] != "" {
		high, err := strconv.Atoi(match[3])
		if err != nil {
			return strconv.Itoa(low)
		}
		return strconv.Itoa(low) + "-" + strconv.Itoa(high)
	}

	if match[1] != "" || match[4] != "" {
		return strconv.Itoa(low) + "+"
	}
	return strconv.Itoa(low)
}

// normalizeText folds compatibility characters (full-width digits,
// non-breaking spaces) so the patterns see plain ASCII where possible.
func normalizeText(str string) string {
	return norm.NFKC.String(str)
}
