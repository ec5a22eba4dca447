package feed

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>subscriptions</title></head>
  <body>
    <outline type="rss" text="Simon Willison" xmlUrl="https://simonwillison.net/atom/everything/" htmlUrl="https://simonwillison.net/"/>
    <outline text="Tech" title="Tech">
      <outline type="rss" text="Dan Luu" xmlUrl="https://danluu.com/atom.xml"/>
      <outline type="link" text="Not a feed" url="https://example.com"/>
    </outline>
    <outline type="rss" text="No url feed"/>
  </body>
</opml>`

func TestParseOPML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "subs.opml")
	if err := os.WriteFile(path, []byte(sampleOPML), 0o644); err != nil {
		t.Fatal(err)
	}

	subs, err := ParseOPML(path)
	if err != nil {
		t.Fatalf("ParseOPML: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("subs = %d, want 2 (rss outlines only): %+v", len(subs), subs)
	}
	if subs[0].Title != "Simon Willison" || subs[0].URL != "https://simonwillison.net/atom/everything/" {
		t.Fatalf("subs[0] = %+v", subs[0])
	}
	if subs[1].Title != "Dan Luu" {
		t.Fatalf("nested outline not collected: %+v", subs[1])
	}
}

func TestParseOPMLMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ParseOPML(filepath.Join(t.TempDir(), "absent.opml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseOPMLMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.opml")
	if err := os.WriteFile(path, []byte("<opml><body>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseOPML(path); err == nil {
		t.Fatal("expected error for malformed xml")
	}
}
