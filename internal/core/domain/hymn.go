package domain

import "time"

// Hymn represents a single devotional lyric record as replicated from the
// remote collection. The ID is the join key between the remote and local
// representations.
type Hymn struct {
	// ID is the stable identifier shared with the remote store.
	// Remote identifiers are always non-negative; negative IDs are a
	// presentation-layer convention for pinned pseudo-entries and are
	// never written by sync.
	ID int64

	// Title is the hymn title.
	Title string

	// Reciter is the performer the recording is attributed to.
	Reciter string

	// Poet is the author of the lyrics.
	Poet string

	// Category groups hymns for browsing (e.g. praise, supplication).
	Category string

	// Lyrics is the original-language lyric body.
	Lyrics string

	// Translation is the second-language rendering of the lyrics.
	Translation string

	// MediaURL links to an audio recording, if one exists.
	MediaURL string

	// UpdatedAt is the remote modification timestamp. The remote
	// guarantees it is monotonically non-decreasing per ID.
	UpdatedAt time.Time

	// Deleted marks the hymn as a tombstone. Tombstones are propagated
	// as deletions on the local side.
	Deleted bool
}

// IsPinned reports whether the hymn is a presentation-layer pseudo-entry
// rather than replicated content.
func (h Hymn) IsPinned() bool {
	return h.ID < 0
}

// Page describes a pagination window for listings.
type Page struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}
