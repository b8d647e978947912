package services

import (
	"sort"
	"strings"

	"github.com/scholarhub/api/model"
)

// Sort keys accepted by the listing engine.
const (
	SortRecent       = "recent"
	SortDeadlineSoon = "deadline-soon"
	SortAmountHigh   = "amount-high"
	SortAmountLow    = "amount-low"
)

// Amount buckets accepted by the listing engine.
const (
	BucketAny      = "any"
	BucketUpTo10K  = "0-10000"
	Bucket10KTo25K = "10000-25000"
	Bucket25KTo50K = "25000-50000"
	BucketAbove50K = "50000+"
)

// ListingPageSize is the number of results revealed per "load more" step.
const ListingPageSize = 6

// ListingFilter is the caller-chosen filter and sort state for the public
// scholarship listing.
type ListingFilter struct {
	Query        string
	Countries    []string
	Degrees      []string
	AmountBucket string
	SortKey      string
	Lang         string
}

// FilterScholarships applies the text, country, degree and amount filters
// in memory and returns the surviving records in their input order.
func FilterScholarships(in []model.Scholarship, f ListingFilter) []model.Scholarship {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Scholarship, 0, len(in))
	for _, s := range in {
		if query != "" && !matchesQuery(s, query, f.Lang) {
			continue
		}
		if len(f.Countries) > 0 && !containsFold(f.Countries, s.TargetCountry) {
			continue
		}
		if len(f.Degrees) > 0 && !matchesDegree(s.DegreeLevel, f.Degrees) {
			continue
		}
		if !matchesAmountBucket(s.Amount, f.AmountBucket) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// matchesQuery does a case-insensitive substring match against the resolved
// title, provider name and target country.
func matchesQuery(s model.Scholarship, loweredQuery, lang string) bool {
	title := strings.ToLower(s.Title.Resolve(lang))
	if strings.Contains(title, loweredQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(s.ProviderName), loweredQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(s.TargetCountry), loweredQuery)
}

func containsFold(set []string, value string) bool {
	for _, v := range set {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// matchesDegree is a substring match so "Master" also selects
// "Master of Science".
func matchesDegree(degreeLevel string, selected []string) bool {
	lowered := strings.ToLower(degreeLevel)
	for _, d := range selected {
		if d == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// matchesAmountBucket checks the amount against one of the fixed buckets.
// Bounded buckets are inclusive on both ends; the top bucket is open-ended.
func matchesAmountBucket(amount int, bucket string) bool {
	switch bucket {
	case "", BucketAny:
		return true
	case BucketUpTo10K:
		return amount >= 0 && amount <= 10000
	case Bucket10KTo25K:
		return amount >= 10000 && amount <= 25000
	case Bucket25KTo50K:
		return amount >= 25000 && amount <= 50000
	case BucketAbove50K:
		return amount >= 50000
	default:
		return true
	}
}

// SortScholarships orders the result set in place. The primary key is always
// featured-first; the secondary key is the selected sort option. The sort is
// stable so equal records keep their input order.
func SortScholarships(items []model.Scholarship, sortKey string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}

		switch sortKey {
		case SortDeadlineSoon:
			// Records without a deadline sort last.
			if a.Deadline == nil && b.Deadline == nil {
				return false
			}
			if a.Deadline == nil {
				return false
			}
			if b.Deadline == nil {
				return true
			}
			return a.Deadline.Before(*b.Deadline)
		case SortAmountHigh:
			return a.Amount > b.Amount
		case SortAmountLow:
			return a.Amount < b.Amount
		default:
			// SortRecent
			return a.UpdatedAt.After(b.UpdatedAt)
		}
	})
}

// PageScholarships returns the cumulative "load more" window: all results up
// to page*6, plus whether another page exists. Page numbers below 1 are
// treated as 1.
func PageScholarships(items []model.Scholarship, page int) ([]model.Scholarship, bool) {
	if page < 1 {
		page = 1
	}
	limit := page * ListingPageSize
	if limit >= len(items) {
		return items, false
	}
	return items[:limit], true
}
