package models

import "testing"

func TestDefaultThumbnailURL(t *testing.T) {
	got := DefaultThumbnailURL("abc123")
	want := "https://img.youtube.com/vi/abc123/maxresdefault.jpg"
	if got != want {
		t.Errorf("DefaultThumbnailURL() = %q, want %q", got, want)
	}
}
