// Package extract turns raw recognized text into structured candidate
// records. Extraction is deliberately forgiving: recognition output is
// noisy and a human reviews every candidate before commit, so a missed
// field is an empty string, never an error.
package extract

import (
	"regexp"
	"strings"
)

// ContractCandidate is a provisional contract record pending human review.
// Empty string means "not found".
type ContractCandidate struct {
	Vendor      string `json:"vendor"`
	Service     string `json:"service"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	MonthlyCost string `json:"monthly_cost"`
	RawText     string `json:"raw_text"`
}

var (
	reVendor      = regexp.MustCompile(`(?i)Vendor:\s*([A-Za-z0-9 .,-]+)`)
	reService     = regexp.MustCompile(`(?i)Service:\s*([A-Za-z0-9 .,-]+)`)
	reStartDate   = regexp.MustCompile(`(?i)Start\s*Date:\s*([0-9/-]+)`)
	reEndDate     = regexp.MustCompile(`(?i)End\s*Date:\s*([0-9/-]+)`)
	reMonthlyCost = regexp.MustCompile(`(?i)\$([0-9,.]+)[^\S\r\n]*per\s*month`)
)

// ContractFields searches the whole text for labeled contract fields.
// Each label is matched at most once; the first match wins. The full raw
// text is retained on the candidate for audit and debugging.
func ContractFields(text string) ContractCandidate {
	return ContractCandidate{
		Vendor:      firstGroup(reVendor, text),
		Service:     firstGroup(reService, text),
		StartDate:   firstGroup(reStartDate, text),
		EndDate:     firstGroup(reEndDate, text),
		MonthlyCost: stripThousands(firstGroup(reMonthlyCost, text)),
		RawText:     text,
	}
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
