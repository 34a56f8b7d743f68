package core

import (
	"slices"
	"strings"
	"time"
)

// Visibility controls whether an item can be requested.
type Visibility string

const (
	VisibilityListed   Visibility = "listed"
	VisibilityUnlisted Visibility = "unlisted"
)

// AgeRatings lists the accepted age ratings. An empty rating is allowed as well.
var AgeRatings = []string{"0+", "6+", "12+", "16+", "18+"}

// ItemMetadata is the descriptive part of an Item.
type ItemMetadata struct {
	Title       string
	Author      string
	Genre       string
	Tags        []string
	AgeRating   string
	Description string
	CoverRef    string
	Code        string
}

// Item is a physical object in circulation.
//
// Invariants: HolderID never equals OwnerID, and RecallRequested implies a holder.
// Version is the optimistic concurrency token, bumped on every successful command.
type Item struct {
	ID              ItemIDString
	OwnerID         MemberIDString
	HolderID        MemberIDString
	Metadata        ItemMetadata
	Visibility      Visibility
	RecallRequested bool
	Version         uint
	AddedAt         time.Time
}

// HasHolder tells whether someone other than the owner has custody.
func (i Item) HasHolder() bool {
	return i.HolderID != ""
}

// Custodian is the member who physically has the item: the holder if there is one, else the owner.
func (i Item) Custodian() MemberIDString {
	if i.HasHolder() {
		return i.HolderID
	}

	return i.OwnerID
}

// IsListed tells whether the item can be requested.
func (i Item) IsListed() bool {
	return i.Visibility != VisibilityUnlisted
}

// Equal compares metadata field by field, tags in order.
func (m ItemMetadata) Equal(other ItemMetadata) bool {
	return m.Title == other.Title &&
		m.Author == other.Author &&
		m.Genre == other.Genre &&
		slices.Equal(m.Tags, other.Tags) &&
		m.AgeRating == other.AgeRating &&
		m.Description == other.Description &&
		m.CoverRef == other.CoverRef &&
		m.Code == other.Code
}

// Validate checks the title and the age rating.
func (m ItemMetadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return Reject(ErrInvalidInput, "title must not be empty")
	}

	if !IsValidAgeRating(m.AgeRating) {
		return Reject(ErrInvalidInput, "age rating must be one of "+strings.Join(AgeRatings, ", "))
	}

	return nil
}

// Normalized trims text fields and normalizes tags.
func (m ItemMetadata) Normalized() ItemMetadata {
	m.Title = strings.TrimSpace(m.Title)
	m.Author = strings.TrimSpace(m.Author)
	m.Genre = strings.TrimSpace(m.Genre)
	m.Tags = NormalizeTags(m.Tags)
	m.AgeRating = strings.TrimSpace(m.AgeRating)
	m.Description = strings.TrimSpace(m.Description)
	m.Code = strings.TrimSpace(m.Code)

	return m
}

// NormalizeTags lowercases, trims and deduplicates tags, keeping their first-seen order.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || slices.Contains(normalized, tag) {
			continue
		}

		normalized = append(normalized, tag)
	}

	return normalized
}

// IsValidAgeRating accepts the empty rating and the values in AgeRatings.
func IsValidAgeRating(rating string) bool {
	return rating == "" || slices.Contains(AgeRatings, rating)
}
