package model

import "gorm.io/gorm"

type TMKind string

const (
	// TMKindWorking is a disposable scratch memory filled while translating.
	TMKindWorking TMKind = "working"
	// TMKindMain is the curated, append-mostly asset confirmed segments are
	// promoted into.
	TMKindMain TMKind = "main"
)

// TM is a reusable translation memory store. It is not owned by any project;
// projects gain access through mounts.
type TM struct {
	gorm.Model
	ID      string `gorm:"primaryKey;uuid;not null;"`
	Kind    string `gorm:"not null"`
	Name    string `gorm:"not null"`
	SrcLang string `gorm:"not null"`
	TgtLang string `gorm:"not null"`
}

// TMEntry is one source->target pair inside a TM. SourceKey is the normalized
// match key of the source text and SrcHash its digest. SourceKey is not
// unique within a TM: a memory may hold several translations for the same
// source, ranking breaks ties.
type TMEntry struct {
	gorm.Model
	TMID string `gorm:"uuid;not null;index"`

	SourceKey     string `gorm:"not null"`
	SourceText    string `gorm:"not null"`
	TargetText    string `gorm:"not null"`
	TagsSignature string
	SrcHash       string `gorm:"index"`
	Provenance    string
}
