package model

import "gorm.io/gorm"

// File is one imported translatable file. The segment-status counters are
// denormalized aggregates over the file's segment rows; they are recomputed
// in the same transaction as every segment mutation, never patched
// incrementally.
type File struct {
	gorm.Model
	ID        string `gorm:"primaryKey;uuid;not null;"`
	ProjectID string `gorm:"uuid;not null;index"`
	Name      string `gorm:"not null"`
	Path      string

	TotalSegments      int64
	NewSegments        int64
	DraftSegments      int64
	TranslatedSegments int64
	ConfirmedSegments  int64
	ReviewedSegments   int64
}

// Stats is the aggregate snapshot written back to the file row.
type Stats struct {
	Total      int64
	New        int64
	Draft      int64
	Translated int64
	Confirmed  int64
	Reviewed   int64
}

func (s Stats) Bucket(status Status) int64 {
	switch status {
	case StatusNew:
		return s.New
	case StatusDraft:
		return s.Draft
	case StatusTranslated:
		return s.Translated
	case StatusConfirmed:
		return s.Confirmed
	case StatusReviewed:
		return s.Reviewed
	}
	return 0
}

func (f *File) ApplyStats(stats Stats) {
	f.TotalSegments = stats.Total
	f.NewSegments = stats.New
	f.DraftSegments = stats.Draft
	f.TranslatedSegments = stats.Translated
	f.ConfirmedSegments = stats.Confirmed
	f.ReviewedSegments = stats.Reviewed
}
