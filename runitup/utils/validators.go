package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	urlPattern         = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	userMentionPattern = regexp.MustCompile(`<@!?\d+>`)
	roleMentionPattern = regexp.MustCompile(`<@&\d+>`)
	chanMentionPattern = regexp.MustCompile(`<#\d+>`)
)

const maxInputLength = 500

// ValidateURL checks that s looks like a plain http(s) URL.
func ValidateURL(s string) bool {
	return urlPattern.MatchString(strings.TrimSpace(s))
}

// ParseAmount parses a user-supplied dollar amount. Accepts an optional
// leading $ and thousands separators, rejects negatives, and rounds to
// cents.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("amount is empty")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if amount < 0 {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	return math.Round(amount*100) / 100, nil
}

// SanitizeInput strips mention markup from free-form text and truncates
// it, so user descriptions cannot ping roles when echoed in embeds.
func SanitizeInput(s string) string {
	cleaned := userMentionPattern.ReplaceAllString(s, "")
	cleaned = roleMentionPattern.ReplaceAllString(cleaned, "")
	cleaned = chanMentionPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if utf8.RuneCountInString(cleaned) > maxInputLength {
		runes := []rune(cleaned)
		cleaned = string(runes[:maxInputLength])
	}
	return cleaned
}

// FormatPoints renders a point delta with an explicit sign.
func FormatPoints(points int) string {
	if points >= 0 {
		return fmt.Sprintf("+%d", points)
	}
	return strconv.Itoa(points)
}
