package metadata

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhowden/tag"
)

// Tags holds the track fields the catalog stores. Empty fields mean the
// extractor found nothing; the pipeline substitutes fallbacks.
type Tags struct {
	Title  string
	Artist string
	Genre  string
}

// Extractor reads embedded audio metadata from a byte stream. origin is the
// display path of the stream, available for format hints.
type Extractor interface {
	Extract(r io.ReadSeeker, origin string) (Tags, error)
}

// TagExtractor extracts metadata from ID3/Vorbis/MP4 tags.
type TagExtractor struct{}

// Extract parses embedded tags. Failures are recoverable: the caller falls
// back to filename-derived fields and never fails the candidate for a bad tag.
func (TagExtractor) Extract(r io.ReadSeeker, origin string) (Tags, error) {
	parsed, err := tag.ReadFrom(r)
	if err != nil {
		return Tags{}, fmt.Errorf("read tags from %s: %w", origin, err)
	}
	return Tags{
		Title:  strings.TrimSpace(parsed.Title()),
		Artist: strings.TrimSpace(parsed.Artist()),
		Genre:  strings.TrimSpace(parsed.Genre()),
	}, nil
}
