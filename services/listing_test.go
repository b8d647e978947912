package services

import (
	"testing"
	"time"

	"github.com/scholarhub/api/model"
	"github.com/scholarhub/api/utils/localized"
)

func listingFixture() []model.Scholarship {
	day := 24 * time.Hour
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	d1 := base.Add(10 * day)
	d2 := base.Add(40 * day)

	items := []model.Scholarship{
		{
			Title:         localized.Plain("Global Excellence Scholarship"),
			ProviderName:  "Tashkent International University",
			TargetCountry: "Uzbekistan",
			DegreeLevel:   "Master of Science",
			Amount:        45000,
			Deadline:      &d2,
			IsFeatured:    false,
		},
		{
			Title:         localized.Plain("Undergraduate Merit Award"),
			ProviderName:  "Northfield State",
			TargetCountry: "United States",
			DegreeLevel:   "Bachelor",
			Amount:        8000,
			Deadline:      &d1,
			IsFeatured:    true,
		},
		{
			Title:         localized.Plain("Research Fellowship"),
			ProviderName:  "Riverside College",
			TargetCountry: "Canada",
			DegreeLevel:   "PhD",
			Amount:        60000,
			Deadline:      nil,
			IsFeatured:    false,
		},
		{
			Title:         localized.Plain("Community Grant"),
			ProviderName:  "Northfield State",
			TargetCountry: "United States",
			DegreeLevel:   "Bachelor of Arts",
			Amount:        10000,
			Deadline:      &d1,
			IsFeatured:    false,
		},
	}

	for i := range items {
		items[i].ID = uint(i + 1)
		items[i].UpdatedAt = base.Add(time.Duration(i) * time.Hour)
	}
	return items
}

func idsOf(items []model.Scholarship) []uint {
	ids := make([]uint, len(items))
	for i, s := range items {
		ids[i] = s.ID
	}
	return ids
}

func TestFilterScholarshipsQuery(t *testing.T) {
	items := listingFixture()

	got := FilterScholarships(items, ListingFilter{Query: "excellence"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("title query = %v, want [1]", idsOf(got))
	}

	// Provider and country text are searched too.
	got = FilterScholarships(items, ListingFilter{Query: "northfield"})
	if len(got) != 2 {
		t.Fatalf("provider query matched %v, want 2 results", idsOf(got))
	}

	got = FilterScholarships(items, ListingFilter{Query: "CANADA"})
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("country query = %v, want [3]", idsOf(got))
	}
}

func TestFilterScholarshipsDegreeSubstring(t *testing.T) {
	items := listingFixture()

	got := FilterScholarships(items, ListingFilter{Degrees: []string{"Bachelor"}})
	if len(got) != 2 {
		t.Fatalf("degree filter = %v, want [2 4]", idsOf(got))
	}
	for _, s := range got {
		if s.ID != 2 && s.ID != 4 {
			t.Errorf("unexpected record %d in degree results", s.ID)
		}
	}
}

func TestFilterScholarshipsAmountBuckets(t *testing.T) {
	items := listingFixture()

	cases := []struct {
		bucket string
		want   []uint
	}{
		{BucketAny, []uint{1, 2, 3, 4}},
		// 10000 sits on a boundary and appears in both adjacent buckets.
		{BucketUpTo10K, []uint{2, 4}},
		{Bucket10KTo25K, []uint{4}},
		{Bucket25KTo50K, []uint{1}},
		// The top bucket is open-ended.
		{BucketAbove50K, []uint{3}},
		// An unknown bucket applies no filter.
		{"bogus-bucket", []uint{1, 2, 3, 4}},
	}

	for _, tc := range cases {
		got := idsOf(FilterScholarships(items, ListingFilter{AmountBucket: tc.bucket}))
		if len(got) != len(tc.want) {
			t.Errorf("bucket %q = %v, want %v", tc.bucket, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("bucket %q = %v, want %v", tc.bucket, got, tc.want)
				break
			}
		}
	}
}

func TestSortScholarshipsFeaturedFirst(t *testing.T) {
	items := listingFixture()

	SortScholarships(items, SortAmountLow)
	if !items[0].IsFeatured {
		t.Fatalf("featured record should lead regardless of sort key, got ID %d", items[0].ID)
	}
	// Remaining records follow the amount ordering.
	if items[1].ID != 4 || items[2].ID != 1 || items[3].ID != 3 {
		t.Fatalf("amount-low order = %v, want [2 4 1 3]", idsOf(items))
	}
}

func TestSortScholarshipsDeadlineNilLast(t *testing.T) {
	items := listingFixture()

	SortScholarships(items, SortDeadlineSoon)
	last := items[len(items)-1]
	if last.Deadline != nil {
		t.Fatalf("record without a deadline should sort last, got ID %d", last.ID)
	}
	// Among records with deadlines the soonest comes first after the
	// featured block.
	if items[0].ID != 2 {
		t.Fatalf("deadline-soon order = %v, want featured ID 2 first", idsOf(items))
	}
}

func TestSortScholarshipsRecentDefault(t *testing.T) {
	items := listingFixture()

	SortScholarships(items, "")
	// ID 2 is featured, then the rest newest-first by updated time.
	want := []uint{2, 4, 3, 1}
	got := idsOf(items)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recent order = %v, want %v", got, want)
		}
	}
}

func TestPageScholarshipsLoadMore(t *testing.T) {
	items := make([]model.Scholarship, 14)
	for i := range items {
		items[i].ID = uint(i + 1)
	}

	page1, hasMore := PageScholarships(items, 1)
	if len(page1) != 6 || !hasMore {
		t.Fatalf("page 1 = %d items hasMore=%v, want 6 true", len(page1), hasMore)
	}

	// Paging is cumulative, not windowed.
	page2, hasMore := PageScholarships(items, 2)
	if len(page2) != 12 || !hasMore {
		t.Fatalf("page 2 = %d items hasMore=%v, want 12 true", len(page2), hasMore)
	}
	if page2[0].ID != 1 {
		t.Fatalf("page 2 should start at the first record, got ID %d", page2[0].ID)
	}

	page3, hasMore := PageScholarships(items, 3)
	if len(page3) != 14 || hasMore {
		t.Fatalf("page 3 = %d items hasMore=%v, want 14 false", len(page3), hasMore)
	}

	// Page numbers below one clamp to the first page.
	page0, _ := PageScholarships(items, 0)
	if len(page0) != 6 {
		t.Fatalf("page 0 = %d items, want 6", len(page0))
	}
}

func TestPageScholarshipsExactBoundary(t *testing.T) {
	items := make([]model.Scholarship, 6)
	got, hasMore := PageScholarships(items, 1)
	if len(got) != 6 || hasMore {
		t.Fatalf("exact page boundary = %d items hasMore=%v, want 6 false", len(got), hasMore)
	}
}
