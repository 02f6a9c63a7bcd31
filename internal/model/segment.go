package model

import (
	"github.com/emrgen/transmem/internal/token"
	"gorm.io/gorm"
)

type Status string

const (
	StatusNew        Status = "new"
	StatusDraft      Status = "draft"
	StatusTranslated Status = "translated"
	StatusConfirmed  Status = "confirmed"
	StatusReviewed   Status = "reviewed"
)

var statuses = map[Status]bool{
	StatusNew:        true,
	StatusDraft:      true,
	StatusTranslated: true,
	StatusConfirmed:  true,
	StatusReviewed:   true,
}

// NormalizeStatus re-derives a valid status from whatever the store holds.
// The stored value is not trusted: external writers can leave anything in the
// column. An invalid value falls back to draft when the target carries real
// content, new otherwise.
func NormalizeStatus(stored string, hasTarget bool) Status {
	if statuses[Status(stored)] {
		return Status(stored)
	}
	if hasTarget {
		return StatusDraft
	}
	return StatusNew
}

// Segment is one translatable unit of a file. Source and target token
// sequences are persisted as serialized JSON arrays; match_key, src_hash and
// tags_signature are derived from the source tokens at import time.
type Segment struct {
	gorm.Model
	ID         string `gorm:"primaryKey;uuid;not null;"`
	FileID     string `gorm:"uuid;not null;index"`
	OrderIndex int    `gorm:"not null"`

	SourceTokens string `gorm:"not null"`
	TargetTokens string
	Status       string `gorm:"not null"`

	TagsSignature string
	MatchKey      string `gorm:"index"`
	SrcHash       string `gorm:"index"`

	Meta string
}

// NormalizedStatus returns the status the engine exposes for this row,
// applying the load-time normalization rule.
func (s *Segment) NormalizedStatus() Status {
	target, err := token.Unmarshal(s.TargetTokens)
	if err != nil {
		// corrupted target column, treat as empty
		return NormalizeStatus(s.Status, false)
	}
	return NormalizeStatus(s.Status, token.HasText(target))
}
