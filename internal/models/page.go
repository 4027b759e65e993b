package models

import (
	"time"

	"gorm.io/gorm"
)

// EntryComponentMeta names the component that renders a page and the route
// parameters it was declared with
type EntryComponentMeta struct {
	DisplayName string            `json:"displayName"`
	Params      map[string]string `json:"params,omitempty"`
}

// PageDescriptor is a page definition fetched from the page builder.
// Only the first entry is ever rendered.
type PageDescriptor struct {
	Path      string               `json:"path"`
	Title     string               `json:"title,omitempty"`
	Entries   []EntryComponentMeta `json:"entryComponentsMeta"`
	UpdatedAt time.Time            `json:"updatedAt,omitempty"`
}

// FirstEntry returns the entry that gets rendered, or false when there is none
func (d *PageDescriptor) FirstEntry() (EntryComponentMeta, bool) {
	if d == nil || len(d.Entries) == 0 {
		return EntryComponentMeta{}, false
	}
	return d.Entries[0], true
}

// DataCache holds values a page's components need before their first render,
// keyed by query key
type DataCache map[string]any

// PageRecord is a page definition stored in Postgres
type PageRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Path      string               `gorm:"type:varchar(1024);uniqueIndex" json:"path"`
	Title     string               `gorm:"type:varchar(255)" json:"title"`
	Entries   []EntryComponentMeta `gorm:"serializer:json" json:"entries"`
	Published bool                 `json:"published"`
}

// Descriptor converts the stored row to the shape the renderer consumes
func (r PageRecord) Descriptor() *PageDescriptor {
	return &PageDescriptor{
		Path:      r.Path,
		Title:     r.Title,
		Entries:   r.Entries,
		UpdatedAt: r.UpdatedAt,
	}
}
