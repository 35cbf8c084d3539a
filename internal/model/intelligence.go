// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// INTELLIGENCE SNAPSHOT
// =============================================================================

// IntelligenceSnapshot is the set of identifiers extracted by the honeypot
// persona. A snapshot always replaces the previous one wholesale.
type IntelligenceSnapshot struct {
	UPIIDs        []string `json:"upi_ids,omitempty"`
	BankAccounts  []string `json:"bank_accounts,omitempty"`
	BankNames     []string `json:"bank_names,omitempty"`
	IFSCCodes     []string `json:"ifsc_codes,omitempty"`
	PhoneNumbers  []string `json:"phone_numbers,omitempty"`
	PhishingLinks []string `json:"phishing_links,omitempty"`
}

// IntelCategory is one labelled group of a snapshot, in display order.
type IntelCategory struct {
	Key    string
	Label  string
	Values []string
}

// Categories returns the snapshot groups in a fixed order.
func (s *IntelligenceSnapshot) Categories() []IntelCategory {
	if s == nil {
		return nil
	}
	return []IntelCategory{
		{Key: "upi_ids", Label: "UPI IDs", Values: s.UPIIDs},
		{Key: "bank_accounts", Label: "Bank Accounts", Values: s.BankAccounts},
		{Key: "bank_names", Label: "Bank Names", Values: s.BankNames},
		{Key: "ifsc_codes", Label: "IFSC Codes", Values: s.IFSCCodes},
		{Key: "phone_numbers", Label: "Phone Numbers", Values: s.PhoneNumbers},
		{Key: "phishing_links", Label: "Phishing Links", Values: s.PhishingLinks},
	}
}

// Count returns the total number of identifiers across all groups.
func (s *IntelligenceSnapshot) Count() int {
	n := 0
	for _, c := range s.Categories() {
		n += len(c.Values)
	}
	return n
}

// IsEmpty returns true if the snapshot holds no identifiers.
func (s *IntelligenceSnapshot) IsEmpty() bool {
	return s.Count() == 0
}

// Clone returns a deep copy, or nil for a nil snapshot.
func (s *IntelligenceSnapshot) Clone() *IntelligenceSnapshot {
	if s == nil {
		return nil
	}
	return &IntelligenceSnapshot{
		UPIIDs:        cloneStrings(s.UPIIDs),
		BankAccounts:  cloneStrings(s.BankAccounts),
		BankNames:     cloneStrings(s.BankNames),
		IFSCCodes:     cloneStrings(s.IFSCCodes),
		PhoneNumbers:  cloneStrings(s.PhoneNumbers),
		PhishingLinks: cloneStrings(s.PhishingLinks),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
