// Package models holds the data types flowing through the match engine:
// caller input, derived candidate queries, backend hits, and fused results.
package models

// InputRecord is a partial, possibly noisy description of a company supplied
// by the caller. Every field is optional; presence drives query generation.
// Website is accepted as an alias for Domain. Each populated social field is
// treated as an independent signal.
type InputRecord struct {
	Name        string `json:"name,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	SocialMedia string `json:"socialMedia,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
}

// PrimaryDomain returns the domain signal, preferring the explicit domain
// field over the website alias.
func (r InputRecord) PrimaryDomain() string {
	if r.Domain != "" {
		return r.Domain
	}
	return r.Website
}

// SocialHandles returns every populated social signal, in declaration order.
func (r InputRecord) SocialHandles() []string {
	var handles []string
	for _, h := range []string{r.SocialMedia, r.Facebook, r.Twitter, r.Instagram, r.LinkedIn} {
		if h != "" {
			handles = append(handles, h)
		}
	}
	return handles
}

// HasSignals reports whether at least one searchable field is populated.
func (r InputRecord) HasSignals() bool {
	return r.PrimaryDomain() != "" || r.Phone != "" || r.Name != "" || len(r.SocialHandles()) > 0
}

// TargetField names the signal a candidate query was derived from. It also
// determines which index field the backend searches.
type TargetField string

const (
	FieldDomain               TargetField = "domain"
	FieldPhone                TargetField = "phone"
	FieldNameCommercial       TargetField = "name-commercial"
	FieldNameLegal            TargetField = "name-legal"
	FieldSocialExact          TargetField = "social-exact"
	FieldSocialWildcard       TargetField = "social-wildcard"
	FieldSocialClean          TargetField = "social-protocol-agnostic"
	FieldSocialDomainExact    TargetField = "social-domain-exact"
	FieldSocialDomainWildcard TargetField = "social-domain-wildcard"
	FieldSocialFuzzy          TargetField = "social-fuzzy"
)

// IndexField maps the target to the document field it searches.
func (f TargetField) IndexField() string {
	switch f {
	case FieldDomain, FieldSocialDomainExact, FieldSocialDomainWildcard:
		return "domain"
	case FieldPhone:
		return "phone"
	case FieldNameCommercial:
		return "companyCommercialName"
	case FieldNameLegal:
		return "companyLegalName"
	default:
		return "socialMedia"
	}
}

// MatchMode is how a candidate query compares its value against the field.
type MatchMode string

const (
	ModeExact     MatchMode = "exact"
	ModeSubstring MatchMode = "substring"
	ModeFuzzy     MatchMode = "fuzzy"
)

// CandidateQuery is one weighted, independently executable search expression
// derived from a single signal.
type CandidateQuery struct {
	Target TargetField
	Mode   MatchMode
	Value  string
	Weight float64
}

// SearchQuery is what the backend executes: a disjunctive combination of
// clauses (at least one must match), or a neutral match-all when MatchAll is
// set. Size caps the returned hits.
type SearchQuery struct {
	Clauses  []CandidateQuery
	MatchAll bool
	Size     int
}

// CompanyRecord is one canonical corpus entry as stored in the index.
type CompanyRecord struct {
	Domain         string   `json:"domain,omitempty"`
	CommercialName string   `json:"companyCommercialName,omitempty"`
	LegalName      string   `json:"companyLegalName,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	SocialMedia    []string `json:"socialMedia,omitempty"`
	Address        string   `json:"address,omitempty"`
}

// ScoredHit is one backend result. IdentityKey recognizes the same candidate
// across different queries' results: the record's domain, or an opaque
// document identifier when the domain is absent. It embeds the record so the
// wire shape stays flat, matching what the index stores.
type ScoredHit struct {
	CompanyRecord
	Score       float64 `json:"score"`
	IdentityKey string  `json:"-"`
}

// SearchResult is one backend call's outcome: a bounded hit list sorted
// descending by the backend's relevance score.
type SearchResult struct {
	Total int         `json:"total"`
	Hits  []ScoredHit `json:"hits"`
}

// Match pairs an input record with its fused, ranked candidates.
type Match struct {
	Input     InputRecord `json:"input"`
	Matches   []ScoredHit `json:"matches"`
	BestMatch *ScoredHit  `json:"bestMatch"`
}

// IndexSummary reports the outcome of a bulk indexing run.
type IndexSummary struct {
	Indexed int `json:"indexed"`
	Errors  int `json:"errors"`
}

// IndexStats describes the corpus index.
type IndexStats struct {
	IndexName      string `json:"indexName"`
	DocumentsCount int64  `json:"documentsCount"`
	IndexSize      int64  `json:"indexSize"`
}
