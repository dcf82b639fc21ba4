package partner

import "strings"

// JoinName stores first and last name in a single field.
// Both parts are trimmed and joined with one space.
func JoinName(firstName, lastName string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(firstName+" "+lastName), " "))
}

// SplitName is the inverse of JoinName: the first whitespace separated token
// is the first name and the remaining tokens, single spaced, are the last name.
func SplitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
