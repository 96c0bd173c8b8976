// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentStatus is the publication state of a content record.
// Any value may be set directly; there is no transition guard.
type ContentStatus string

// Content statuses
const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// AllContentStatuses returns all valid statuses as strings.
func AllContentStatuses() []string {
	return []string{
		string(StatusDraft),
		string(StatusPublished),
		string(StatusArchived),
	}
}

// IsValidContentStatus checks if a status string is valid.
func IsValidContentStatus(s string) bool {
	for _, v := range AllContentStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// ContentItem is one Service or SingleService document.
type ContentItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Heading     string             `bson:"heading" json:"heading"`
	Description string             `bson:"description" json:"description"` // HTML from the rich-text editor
	Images      []string           `bson:"images" json:"images"`           // filenames inside the kind's image dir
	Slug        string             `bson:"slug" json:"slug"`
	Status      ContentStatus      `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ContentKind describes one content type. Both kinds share the ContentItem
// shape and differ only in naming, collection and image directory.
type ContentKind struct {
	Name         string // human name used in messages ("service")
	Collection   string // MongoDB collection
	HeadingField string // request form field and response JSON key for Heading
	ImageDir     string // storage directory holding uploaded images
	Route        string // URL path the kind is mounted at
}

// Built-in content kinds. ImageDir may be overridden from configuration.
var (
	ServiceKind = ContentKind{
		Name:         "service",
		Collection:   "services",
		HeadingField: "title",
		ImageDir:     "serviceimg",
		Route:        "/services",
	}
	SingleServiceKind = ContentKind{
		Name:         "single service",
		Collection:   "singleservices",
		HeadingField: "heading",
		ImageDir:     "singleserviceimg",
		Route:        "/single-service",
	}
)

// AllContentKinds returns the built-in kinds.
func AllContentKinds() []ContentKind {
	return []ContentKind{ServiceKind, SingleServiceKind}
}
