package metadata

import (
	"bytes"
	"testing"
)

func TestTagExtractorRejectsUntaggedStream(t *testing.T) {
	r := bytes.NewReader([]byte("not an audio file at all"))
	if _, err := (TagExtractor{}).Extract(r, "junk.mp3"); err == nil {
		t.Fatal("expected error for untagged stream")
	}
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/music/my_favorite-song.mp3", "My Favorite Song"},
		{"album/02. intro track.flac", "02 Intro Track"},
		{"weird___gaps.ogg", "Weird Gaps"},
		{"", "Unknown"},
		{"....mp3", "Unknown"},
	}
	for _, tc := range cases {
		if got := DeriveTitle(tc.path); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
