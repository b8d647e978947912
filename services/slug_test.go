package services

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/scholarhub/api/model"
)

func TestSlugifyShape(t *testing.T) {
	slug := Slugify("Global Excellence Scholarship")

	pattern := regexp.MustCompile(`^global-excellence-scholarship-[a-z0-9]{5}$`)
	if !pattern.MatchString(slug) {
		t.Fatalf("Slugify produced %q, want it to match %s", slug, pattern)
	}
}

func TestSlugifyCollapsesSeparators(t *testing.T) {
	slug := Slugify("  STEM -- & -- Arts!!  ")

	pattern := regexp.MustCompile(`^stem-arts-[a-z0-9]{5}$`)
	if !pattern.MatchString(slug) {
		t.Fatalf("Slugify produced %q, want it to match %s", slug, pattern)
	}
}

func TestSlugifyEmptyTitle(t *testing.T) {
	slug := Slugify("!!!")

	// Nothing survives the title, so only the random suffix remains.
	pattern := regexp.MustCompile(`^[a-z0-9]{5}$`)
	if !pattern.MatchString(slug) {
		t.Fatalf("Slugify produced %q for an all-symbol title", slug)
	}
}

func TestSlugifySuffixVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[Slugify("Merit Award")] = true
	}
	if len(seen) < 2 {
		t.Fatal("Slugify returned the same slug 20 times in a row")
	}
}

func TestProviderNameFor(t *testing.T) {
	university := &model.University{Name: "Tashkent International University"}
	user := &model.User{Name: "Admissions Office"}

	if got := ProviderNameFor(user, university); got != "Tashkent International University" {
		t.Errorf("with university = %q, want the university name", got)
	}
	if got := ProviderNameFor(user, nil); got != "Admissions Office" {
		t.Errorf("without university = %q, want the user name", got)
	}
	if got := ProviderNameFor(user, &model.University{Name: "   "}); got != "Admissions Office" {
		t.Errorf("blank university name = %q, want the user name", got)
	}
	if got := ProviderNameFor(nil, nil); got != "University" {
		t.Errorf("with nothing = %q, want the generic placeholder", got)
	}
}

func TestNormalizeReason(t *testing.T) {
	if got := NormalizeReason("   "); got != nil {
		t.Errorf("blank reason = %q, want nil", *got)
	}

	got := NormalizeReason("  outdated listing  ")
	if got == nil || *got != "outdated listing" {
		t.Fatalf("trimmed reason = %v, want %q", got, "outdated listing")
	}

	long := make([]byte, 800)
	for i := range long {
		long[i] = 'x'
	}
	got = NormalizeReason(string(long))
	if got == nil || len(*got) != 500 {
		t.Fatalf("long reason length = %d, want capped at 500", len(*got))
	}
}

func TestNormalizeReasonMultibyte(t *testing.T) {
	// Under the cap: multibyte text passes through untouched even though its
	// byte length exceeds 500.
	short := strings.Repeat("€", 200)
	got := NormalizeReason(short)
	if got == nil || *got != short {
		t.Fatalf("200-rune reason should be kept whole, got %v", got)
	}
	if !utf8.ValidString(*got) {
		t.Fatal("normalized reason is not valid UTF-8")
	}

	// Over the cap: truncation counts runes and never splits one.
	long := strings.Repeat("€", 600)
	got = NormalizeReason(long)
	if got == nil {
		t.Fatal("long multibyte reason became nil")
	}
	if n := utf8.RuneCountInString(*got); n != 500 {
		t.Errorf("rune count = %d, want 500", n)
	}
	if !utf8.ValidString(*got) {
		t.Error("truncated reason is not valid UTF-8")
	}
}
