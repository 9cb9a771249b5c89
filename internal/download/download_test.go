package download

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"anistream/internal/media"
)

func TestFFmpegArgs(t *testing.T) {
	stream := media.Stream{
		URL:     "https://cdn.example/hls/master.m3u8",
		Referer: "https://an1me.to/watch/sousou-no-frieren-episode-3/",
	}
	args := ffmpegArgs(stream, "Frieren E03", "/tmp/out.mp4")

	headers := slices.Index(args, "-headers")
	input := slices.Index(args, "-i")
	if headers < 0 || input < 0 || headers > input {
		t.Fatalf("-headers must precede -i: %v", args)
	}
	if args[headers+1] != "Referer: "+stream.Referer+"\r\n" {
		t.Errorf("header value = %q", args[headers+1])
	}
	if args[input+1] != stream.URL {
		t.Errorf("input = %q", args[input+1])
	}
	if args[len(args)-1] != "/tmp/out.mp4" {
		t.Errorf("output = %q", args[len(args)-1])
	}
}

func TestFFmpegArgsWithoutReferer(t *testing.T) {
	args := ffmpegArgs(media.Stream{URL: "https://cdn.example/a.mp4"}, "x", "/tmp/x.mp4")
	if slices.Contains(args, "-headers") {
		t.Errorf("unexpected -headers in %v", args)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	path, err := OutputPath(dir, "Frieren: E03/../..")
	if err != nil {
		t.Fatalf("OutputPath() error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path %q escaped %q", path, dir)
	}
	if !strings.HasSuffix(path, ".mp4") {
		t.Errorf("path %q lacks .mp4 extension", path)
	}
}

func TestDownloadRejectsBrowserOnlyStream(t *testing.T) {
	_, err := Download(context.Background(), media.Stream{Name: "An1me.to - Watch in Browser", ExternalURL: "https://an1me.to/"}, "x", t.TempDir())
	if err == nil {
		t.Error("expected error for stream without direct URL")
	}
}
