// Package scoring computes the relevance of a posting against the run
// profile. Scoring is a pure function: it never touches the posting it is
// given and always yields the same result for the same inputs.
package scoring

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mhaensel/jobradar/internal/job"
	"github.com/mhaensel/jobradar/internal/profile"
)

const (
	titleMatchPoints     = 35
	seniorityMatchPoints = 15
	keywordPoints        = 5
	keywordCap           = 30
	locationPoints       = 20
	locationPenalty      = 50
	companyMatchPoints   = 15
	highSalaryPoints     = 10
	lowSalaryPenalty     = 20
	negativePenalty      = 40

	highSalaryFloor = 100000
	lowSalaryCeil   = 60000
)

// salaryPattern matches euro amounts like "120.000 €" or "95 eur": a 2-3
// digit number, an optional thousands group and a currency marker. The
// thousands-group reconstruction below is deliberately kept as tuned; the
// score thresholds depend on this exact heuristic.
var salaryPattern = regexp.MustCompile(`(\d{2,3})[.,]?(\d{3})?\s*(?:€|eur|euro)`)

// Score evaluates a posting against the profile and returns the clamped
// relevance score together with human-readable match reasons in evaluation
// order. The final score is always within [0, 100].
func Score(p *job.Posting, prof *profile.Profile) (float64, []string) {
	var score float64
	reasons := make([]string, 0, 4)

	text := strings.ToLower(fmt.Sprintf("%s %s %s %s", p.Title, p.Company, p.Description, p.Location))
	titleLower := strings.ToLower(p.Title)

	// Title match, with seniority indicators as a non-additive fallback.
	matched := false
	for _, target := range prof.TargetTitles {
		if strings.Contains(titleLower, target) {
			score += titleMatchPoints
			reasons = append(reasons, fmt.Sprintf("Title match: '%s'", target))
			matched = true
			break
		}
	}
	if !matched {
		for _, indicator := range prof.SeniorityIndicators {
			if strings.Contains(titleLower, indicator) {
				score += seniorityMatchPoints
				reasons = append(reasons, fmt.Sprintf("Seniority match: '%s'", indicator))
				break
			}
		}
	}

	// Keyword density across title, company, description and location.
	hits := make([]string, 0)
	for _, kw := range prof.PositiveKeywords {
		if strings.Contains(text, kw) {
			hits = append(hits, kw)
		}
	}
	if len(hits) > 0 {
		kwScore := float64(len(hits) * keywordPoints)
		if kwScore > keywordCap {
			kwScore = keywordCap
		}
		score += kwScore
		shown := hits
		if len(shown) > 5 {
			shown = shown[:5]
		}
		reasons = append(reasons, fmt.Sprintf("Keywords (%d): %s", len(hits), strings.Join(shown, ", ")))
	}

	// Location inclusion checks the location plus the start of the
	// description, since many boards bury the city there.
	locText := strings.ToLower(fmt.Sprintf("%s %s", p.Location, prefix(p.Description, 500)))
	for _, loc := range prof.LocationInclude {
		if strings.Contains(locText, loc) {
			score += locationPoints
			reasons = append(reasons, fmt.Sprintf("Location: '%s'", loc))
			break
		}
	}

	// Every excluded location compounds; the clamp below is the only floor.
	for _, exc := range prof.LocationExclude {
		if strings.Contains(locText, exc) {
			score -= locationPenalty
			reasons = append(reasons, fmt.Sprintf("Location excluded: '%s'", exc))
		}
	}

	companyLower := strings.ToLower(p.Company)
	for _, tc := range prof.TargetCompanies {
		tcLower := strings.ToLower(tc.Name)
		if strings.Contains(companyLower, tcLower) || strings.Contains(tcLower, companyLower) {
			score += companyMatchPoints
			reasons = append(reasons, fmt.Sprintf("Target company: %s", tc.Name))
			break
		}
	}

	salaryText := strings.ToLower(fmt.Sprintf("%s %s", p.SalaryInfo, prefix(p.Description, 1000)))
	if amount, ok := parseSalary(salaryText); ok {
		switch {
		case amount >= highSalaryFloor:
			score += highSalaryPoints
			reasons = append(reasons, fmt.Sprintf("Salary: ~€%s", humanize.Comma(int64(amount))))
		case amount < lowSalaryCeil:
			score -= lowSalaryPenalty
			reasons = append(reasons, fmt.Sprintf("Low salary: ~€%s", humanize.Comma(int64(amount))))
		}
	}

	// Negative keywords only count in the title, but every hit compounds.
	for _, neg := range prof.NegativeKeywords {
		if strings.Contains(titleLower, neg) {
			score -= negativePenalty
			reasons = append(reasons, fmt.Sprintf("Negative: '%s'", neg))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

// parseSalary reconstructs a euro amount from the salary pattern. A bare
// 2-3 digit number is read as thousands ("95" -> 95000); with a thousands
// group present the two groups concatenate ("95" + "000" -> 95000).
// Malformed numbers are swallowed, never reported.
func parseSalary(text string) (int, bool) {
	groups := salaryPattern.FindStringSubmatch(text)
	if groups == nil {
		return 0, false
	}

	raw := groups[1]
	if groups[2] != "" {
		raw += groups[2]
	}

	amount, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if groups[2] == "" {
		amount *= 1000
	}
	return amount, true
}

// prefix returns the first n characters of s, safe for multi-byte text.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
