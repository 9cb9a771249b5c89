// Package download provides secure ffmpeg-based media downloading.
// Uses exec.CommandContext with explicit argument slices and validates
// output paths against directory traversal attacks.
package download

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"anistream/internal/httputil"
	"anistream/internal/media"
)

// Download fetches a direct stream to a local file using ffmpeg.
func Download(ctx context.Context, stream media.Stream, title string, outputDir string) (string, error) {
	if !stream.Direct() {
		return "", fmt.Errorf("stream %q has no direct URL", stream.Name)
	}

	// Validate ffmpeg is available
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	outputPath, err := OutputPath(outputDir, title)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, ffmpegArgs(stream, title, outputPath)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Fprintf(os.Stderr, "Downloading to: %s\n", outputPath)

	if err := cmd.Run(); err != nil {
		// Clean up partial download on failure
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg download failed: %w", err)
	}

	return outputPath, nil
}

// OutputPath returns the sanitized .mp4 path for title inside dir.
func OutputPath(dir, title string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	path, err := httputil.SafeDownloadPath(absDir, httputil.SanitizeFilename(title)+".mp4")
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	return path, nil
}

// ffmpegArgs builds the ffmpeg invocation. The Referer header must precede
// -i to apply to the input.
func ffmpegArgs(stream media.Stream, title, outputPath string) []string {
	args := []string{"-y", "-loglevel", "warning", "-stats"}
	if stream.Referer != "" {
		args = append(args, "-headers", "Referer: "+stream.Referer+"\r\n")
	}
	return append(args,
		"-i", stream.URL,
		"-c", "copy", // No re-encoding
		"-bsf:a", "aac_adtstoasc",
		"-metadata", "title="+title,
		outputPath,
	)
}
