package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single hyphen, trimming hyphens at both ends.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = reNonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateSlug derives a unique slug for title. While exists reports a
// collision it retries with " 1", " 2", ... appended to the title before
// slugifying, so the first free candidate wins. A title that slugifies to
// nothing (punctuation only) is rejected up front rather than letting a bare
// counter become the slug.
func GenerateSlug(title string, exists func(slug string) bool) (string, error) {
	if Slugify(title) == "" {
		return "", fmt.Errorf("%w: title %q produces an empty slug", ErrValidation, title)
	}
	for counter := 0; ; counter++ {
		slug := candidateSlug(title, counter)
		if !exists(slug) {
			return slug, nil
		}
	}
}

// GenerateSlugContext is GenerateSlug for predicates that hit the database (or
// any other I/O). Both variants share candidateSlug so they can never drift.
func GenerateSlugContext(ctx context.Context, title string, exists func(ctx context.Context, slug string) (bool, error)) (string, error) {
	if Slugify(title) == "" {
		return "", fmt.Errorf("%w: title %q produces an empty slug", ErrValidation, title)
	}
	for counter := 0; ; counter++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		slug := candidateSlug(title, counter)
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
}

func candidateSlug(title string, counter int) string {
	if counter == 0 {
		return Slugify(title)
	}
	return Slugify(fmt.Sprintf("%s %d", title, counter))
}

// SlugTaken builds an exists predicate over the given model's slug column.
// The comparison is case-insensitive.
func SlugTaken(db *gorm.DB, model interface{}) func(slug string) bool {
	return func(slug string) bool {
		var count int64
		db.Model(model).Where("LOWER(slug) = ?", strings.ToLower(slug)).Count(&count)
		return count > 0
	}
}
