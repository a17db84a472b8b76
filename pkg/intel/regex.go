// FILE: pkg/intel/regex.go
// PURPOSE: Deterministic indicator extraction. Conservative by design:
// a missed indicator is acceptable, a fabricated one is not.

package intel

import (
	"regexp"
	"strings"
)

var (
	// UPI handles against an allow-list of provider suffixes. A plain email
	// like user@gmail.com must NOT match: gmail is not a payment provider.
	upiPattern = regexp.MustCompile(
		`(?i)\b([a-zA-Z0-9._-]+@(?:upi|okaxis|okhdfcbank|okicici|oksbi|paytm|ybl|apl|` +
			`ibl|axl|sbi|icici|hdfc|axis|kotak|phonepe|gpay|amazonpay))\b`)

	// Full URLs, or known link shorteners followed by a path segment.
	urlPattern = regexp.MustCompile(
		`(?i)(https?://[^\s<>"']+|` +
			`(?:bit\.ly|tinyurl\.com|goo\.gl|t\.co|is\.gd|buff\.ly|ow\.ly|short\.link)/[^\s<>"']+)`)

	// IFSC bank branch codes: 4 letters, a literal zero, 6 alphanumerics.
	ifscPattern = regexp.MustCompile(`(?i)\b([A-Z]{4}0[A-Z0-9]{6})\b`)

	// 9-18 digit runs, but ONLY when preceded by an account keyword. A bare
	// long number (a phone number, say) never qualifies.
	bankAccountPattern = regexp.MustCompile(
		`(?i)(?:account|a/c|acc(?:ount)?|ac)[\s.:]*(?:no\.?|number|num)?[\s.:]*(\d{9,18})\b`)
)

// ExtractViaRegex pattern-matches a transcript for scam indicators.
// Pure and total: no side effects, no failure mode.
func ExtractViaRegex(text string) Result {
	result := NewResult()

	for _, m := range upiPattern.FindAllStringSubmatch(text, -1) {
		result.UpiIDs = append(result.UpiIDs, strings.ToLower(m[1]))
	}
	result.UpiIDs = dedupe(result.UpiIDs)

	// URLs are collected as-is; normalizing could destroy evidence.
	result.PhishingLinks = dedupe(urlPattern.FindAllString(text, -1))

	for _, m := range ifscPattern.FindAllStringSubmatch(text, -1) {
		result.OtherIndicators = append(result.OtherIndicators, strings.ToUpper(m[1]))
	}
	result.OtherIndicators = dedupe(result.OtherIndicators)

	for _, m := range bankAccountPattern.FindAllStringSubmatch(text, -1) {
		result.BankAccounts = append(result.BankAccounts, m[1])
	}
	result.BankAccounts = dedupe(result.BankAccounts)

	return result
}
