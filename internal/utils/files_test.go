package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "two" {
		t.Fatalf("got %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSlugName(t *testing.T) {
	cases := map[string]string{
		"Top 50%":      "top_50pct",
		"Bottom 66.7%": "bottom_66_7pct",
		"  2021_HE ":   "2021_he",
		"%%":           "pctpct",
		"***":          "unnamed",
	}
	for in, want := range cases {
		if got := SlugName(in); got != want {
			t.Errorf("SlugName(%q) = %q, want %q", in, got, want)
		}
	}
}
