package intel

// Result groups the scam indicators pulled out of a transcript. All fields are
// string lists; empty lists are a normal outcome, not an error.
type Result struct {
	BankAccounts    []string `json:"bank_accounts"`
	UpiIDs          []string `json:"upi_ids"`
	PhishingLinks   []string `json:"phishing_links"`
	OtherIndicators []string `json:"other_indicators"`
}

// NewResult returns an empty result with all lists allocated, so JSON output
// renders [] instead of null.
func NewResult() Result {
	return Result{
		BankAccounts:    []string{},
		UpiIDs:          []string{},
		PhishingLinks:   []string{},
		OtherIndicators: []string{},
	}
}

// IsEmpty reports whether no indicators were found in any category.
func (r Result) IsEmpty() bool {
	return len(r.BankAccounts) == 0 &&
		len(r.UpiIDs) == 0 &&
		len(r.PhishingLinks) == 0 &&
		len(r.OtherIndicators) == 0
}

// Merge unions another result into this one, deduplicating per category.
func (r Result) Merge(other Result) Result {
	return Result{
		BankAccounts:    dedupe(append(append([]string{}, r.BankAccounts...), other.BankAccounts...)),
		UpiIDs:          dedupe(append(append([]string{}, r.UpiIDs...), other.UpiIDs...)),
		PhishingLinks:   dedupe(append(append([]string{}, r.PhishingLinks...), other.PhishingLinks...)),
		OtherIndicators: dedupe(append(append([]string{}, r.OtherIndicators...), other.OtherIndicators...)),
	}
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
