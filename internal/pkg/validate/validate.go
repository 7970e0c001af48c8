package validate

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinLength(value string, n int) bool {
	return utf8.RuneCountInString(strings.TrimSpace(value)) >= n
}

func MaxLength(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// Email accepts a bare address ("a@b.c"), not a display-name form.
func Email(value string) bool {
	value = strings.TrimSpace(value)
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value && strings.Contains(value[strings.LastIndex(value, "@"):], ".")
}

func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
