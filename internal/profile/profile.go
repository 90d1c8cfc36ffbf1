package profile

import (
	"fmt"
	"sort"
	"strings"
)

const defaultMaxResults = 50

// File mirrors the on-disk configuration document. It is unmarshalled by
// viper in the cmd layer and turned into a Profile via Build.
type File struct {
	Profile struct {
		TargetTitles      []string `mapstructure:"target_titles"`
		PositiveKeywords  []string `mapstructure:"positive_keywords"`
		NegativeKeywords  []string `mapstructure:"negative_keywords"`
		MinRelevanceScore float64  `mapstructure:"min_relevance_score"`
	} `mapstructure:"profile"`
	SearchQueries []string `mapstructure:"search_queries"`
	Locations     struct {
		Include []string `mapstructure:"include"`
		Exclude []string `mapstructure:"exclude"`
	} `mapstructure:"locations"`
	Salary struct {
		SeniorityIndicators []string `mapstructure:"seniority_indicators"`
	} `mapstructure:"salary"`
	// Companies are grouped by category in the document; the grouping is
	// purely organizational and is flattened at load time.
	TargetCompanies map[string][]TargetCompany `mapstructure:"target_companies"`
	Output          struct {
		MaxResultsPerReport int `mapstructure:"max_results_per_report"`
	} `mapstructure:"output"`
}

// TargetCompany is a company watched directly via its careers page.
type TargetCompany struct {
	Name       string `mapstructure:"name"`
	CareersURL string `mapstructure:"careers_url"`
	HQ         string `mapstructure:"hq"`
}

// Profile holds the matching rules for one run. It is built once at startup
// and must not be mutated afterwards. All list values are lowercased here so
// the scorer can compare without case folding; company names keep their
// original casing for display and are compared case-insensitively.
type Profile struct {
	TargetTitles        []string
	PositiveKeywords    []string
	NegativeKeywords    []string
	MinScore            float64
	SearchQueries       []string
	LocationInclude     []string
	LocationExclude     []string
	SeniorityIndicators []string
	TargetCompanies     []TargetCompany
	MaxResults          int
}

// Build validates the document and produces the normalized run profile.
// Missing required keys fail here, before any adapter runs.
func (f *File) Build() (*Profile, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	p := &Profile{
		TargetTitles:        lowerAll(f.Profile.TargetTitles),
		PositiveKeywords:    lowerAll(f.Profile.PositiveKeywords),
		NegativeKeywords:    lowerAll(f.Profile.NegativeKeywords),
		MinScore:            f.Profile.MinRelevanceScore,
		SearchQueries:       f.SearchQueries,
		LocationInclude:     lowerAll(f.Locations.Include),
		LocationExclude:     lowerAll(f.Locations.Exclude),
		SeniorityIndicators: lowerAll(f.Salary.SeniorityIndicators),
		MaxResults:          f.Output.MaxResultsPerReport,
	}

	for _, category := range sortedCategories(f.TargetCompanies) {
		p.TargetCompanies = append(p.TargetCompanies, f.TargetCompanies[category]...)
	}

	if p.MaxResults == 0 {
		p.MaxResults = defaultMaxResults
	}

	return p, nil
}

func (f *File) validate() error {
	missing := make([]string, 0)

	if len(f.Profile.TargetTitles) == 0 {
		missing = append(missing, "profile.target_titles")
	}
	if len(f.Profile.PositiveKeywords) == 0 {
		missing = append(missing, "profile.positive_keywords")
	}
	if f.Profile.MinRelevanceScore < 0 {
		return fmt.Errorf("profile.min_relevance_score must not be negative")
	}
	if len(f.SearchQueries) == 0 {
		missing = append(missing, "search_queries")
	}
	if len(f.Locations.Include) == 0 {
		missing = append(missing, "locations.include")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration keys: %s", strings.Join(missing, ", "))
	}

	for category, companies := range f.TargetCompanies {
		for i, company := range companies {
			if strings.TrimSpace(company.Name) == "" {
				return fmt.Errorf("target_companies.%s[%d]: name is required", category, i)
			}
			if strings.TrimSpace(company.CareersURL) == "" {
				return fmt.Errorf("target_companies.%s[%d] (%s): careers_url is required", category, i, company.Name)
			}
		}
	}

	return nil
}

// sortedCategories keeps the flattened company list deterministic across
// runs regardless of map iteration order.
func sortedCategories(groups map[string][]TargetCompany) []string {
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
