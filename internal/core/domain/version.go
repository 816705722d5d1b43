package domain

import (
	"fmt"
	"sort"
	"time"
)

// DocumentVersion is an immutable snapshot of one manuscript import.
// Versions are created once, persisted append-only and never mutated.
// Version numbers are gapless and strictly increasing per project,
// starting at 1.
type DocumentVersion struct {
	// ProjectID identifies the owning project.
	ProjectID string

	// Number is the per-project version number.
	Number int

	// FullHash is the content hash of the whole manuscript.
	FullHash string

	// ChapterHashes maps chapter number to content hash.
	ChapterHashes map[int]string

	// ParagraphHashes maps ParagraphKey(chapter, index) to content hash.
	ParagraphHashes map[string]string

	// WordCount and CharCount describe the manuscript size.
	WordCount int
	CharCount int

	// SourceFile is the path the manuscript was imported from.
	SourceFile string

	// CreatedAt is when the version was created.
	CreatedAt time.Time

	// ModifiedChapters, AddedChapters and DeletedChapters classify
	// chapters relative to the previous version. For version 1 every
	// chapter is added and nothing is modified or deleted.
	ModifiedChapters []int
	AddedChapters    []int
	DeletedChapters  []int
}

// IsInitial reports whether this is the project's first version.
func (v *DocumentVersion) IsInitial() bool {
	return v.Number == 1
}

// ChapterChanged reports whether the chapter was modified or added in
// this version.
func (v *DocumentVersion) ChapterChanged(number int) bool {
	for _, n := range v.ModifiedChapters {
		if n == number {
			return true
		}
	}
	for _, n := range v.AddedChapters {
		if n == number {
			return true
		}
	}
	return false
}

// ChapterDeleted reports whether the chapter was removed in this version.
func (v *DocumentVersion) ChapterDeleted(number int) bool {
	for _, n := range v.DeletedChapters {
		if n == number {
			return true
		}
	}
	return false
}

// ParagraphKey builds the map key for a paragraph hash.
func ParagraphKey(chapter, index int) string {
	return fmt.Sprintf("%d:%d", chapter, index)
}

// ChapterDiff classifies chapters between two versions.
type ChapterDiff struct {
	// Modified chapters exist in both versions with different hashes.
	Modified []int
	// Added chapters exist only in the new version.
	Added []int
	// Deleted chapters exist only in the old version.
	Deleted []int
}

// Empty reports whether nothing changed between the versions.
func (d ChapterDiff) Empty() bool {
	return len(d.Modified) == 0 && len(d.Added) == 0 && len(d.Deleted) == 0
}

// DiffChapterHashes compares two chapter-hash mappings. A nil previous
// map means there is no prior version: every chapter is added.
// Result slices are sorted ascending.
func DiffChapterHashes(prev, next map[int]string) ChapterDiff {
	var diff ChapterDiff

	for number, hash := range next {
		old, ok := prev[number]
		switch {
		case !ok:
			diff.Added = append(diff.Added, number)
		case old != hash:
			diff.Modified = append(diff.Modified, number)
		}
	}

	for number := range prev {
		if _, ok := next[number]; !ok {
			diff.Deleted = append(diff.Deleted, number)
		}
	}

	sort.Ints(diff.Modified)
	sort.Ints(diff.Added)
	sort.Ints(diff.Deleted)
	return diff
}
