package media

import (
	"strings"
	"testing"
)

func TestExtractVideoID_KnownURLShapes(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		got, err := ExtractVideoID(tc.url)
		if err != nil {
			t.Fatalf("ExtractVideoID(%q): %v", tc.url, err)
		}
		if got != tc.want {
			t.Fatalf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestExtractVideoID_IsDeterministic(t *testing.T) {
	url := "https://www.youtube.com/watch?v=aBcDeFgHiJ0"
	first, err := ExtractVideoID(url)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := ExtractVideoID(url)
		if err != nil || got != first {
			t.Fatalf("extraction not deterministic: %q vs %q (err=%v)", got, first, err)
		}
	}
}

func TestExtractVideoID_MalformedURLFails(t *testing.T) {
	cases := []string{
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=short",
		"not a url at all",
		"",
	}

	for _, url := range cases {
		if _, err := ExtractVideoID(url); err == nil {
			t.Fatalf("expected error for %q", url)
		}
	}
}

func TestBuildDownloadArgs_DefaultsFormat(t *testing.T) {
	args := buildDownloadArgs("https://youtu.be/dQw4w9WgXcQ", "/tmp/v.mp4", "")

	want := []string{"--no-playlist", "--no-warnings", "-f", "best", "-o", "/tmp/v.mp4", "https://youtu.be/dQw4w9WgXcQ"}
	if len(args) != len(want) {
		t.Fatalf("unexpected args: %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d: got %q want %q", i, args[i], want[i])
		}
	}
}

func TestBuildExtractArgs_MonoSixteenKHz(t *testing.T) {
	args := buildExtractArgs("/tmp/v.mp4", "/tmp/a.wav")

	joined := strings.Join(args, " ")
	for _, fragment := range []string{"-ac 1", "-ar 16000", "-y"} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in args: %v", fragment, args)
		}
	}
}
