package job

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Posting is a single scraped job listing in its canonical form. Adapters
// produce these via New so that every posting carries a stable ID.
type Posting struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	URL         string   `json:"url,omitempty"`
	Source      string   `json:"source"`
	Description string   `json:"description,omitempty"`
	SalaryInfo  string   `json:"salary_info,omitempty"`
	DatePosted  string   `json:"date_posted,omitempty"`
	Score       float64  `json:"relevance_score"`
	Reasons     []string `json:"match_reasons,omitempty"`
	ID          string   `json:"id"`
}

// New normalizes a raw posting: optional fields keep their zero values and
// the ID is computed from title, company and url unless already supplied.
// Identical inputs always yield the same ID.
func New(p Posting) *Posting {
	if p.ID == "" {
		p.ID = Identity(p.Title, p.Company, p.URL)
	}
	return &p
}

// Identity returns the deterministic hash recognizing the same posting
// across runs without a central ID authority.
func Identity(title, company, url string) string {
	raw := fmt.Sprintf("%s|%s|%s", title, company, url)
	return fmt.Sprintf("%x", md5.Sum([]byte(raw)))
}

// dedupKey is the run-local deduplication key. The url is the strongest
// signal when present; title+company is the fallback for adapters that
// fail to extract one. This key is intentionally not the same as the
// cross-run ID above.
func (p *Posting) dedupKey() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("%s|%s", p.Title, p.Company)
}

// Postings is an ordered list of postings flowing through one pipeline run.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) Append(items ...*Posting) {
	p.Items = append(p.Items, items...)
}

// Dedupe collapses duplicates within the run, keeping the first occurrence
// of each key and preserving order. Deduplicating twice is a no-op.
func (p *Postings) Dedupe() *Postings {
	seen := make(map[string]struct{}, len(p.Items))
	unique := &Postings{Items: make([]*Posting, 0, len(p.Items))}
	for _, posting := range p.Items {
		key := posting.dedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique.Items = append(unique.Items, posting)
	}
	return unique
}

// SortByScore orders postings by relevance score descending. The sort is
// stable so equally scored postings keep their fetch order.
func (p *Postings) SortByScore() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		return p.Items[i].Score > p.Items[j].Score
	})
}

// Truncate caps the list at max items. Non-positive max leaves it untouched.
func (p *Postings) Truncate(max int) {
	if max > 0 && len(p.Items) > max {
		p.Items = p.Items[:max]
	}
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}
