package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixturePDF(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, "files")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	path := filepath.Join(dir, "cheat_sheet.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n% fixture\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestDownloadPathIsFixed(t *testing.T) {
	assets := NewAssets("static")

	want := filepath.Join("static", "files", "cheat_sheet.pdf")
	if got := assets.DownloadPath(); got != want {
		t.Fatalf("DownloadPath = %q, want %q", got, want)
	}
	if assets.DownloadFilename() != "cheat_sheet.pdf" {
		t.Fatalf("DownloadFilename = %q", assets.DownloadFilename())
	}
}

func TestStatDownloadMissing(t *testing.T) {
	assets := NewAssets(t.TempDir())

	if _, err := assets.StatDownload(); err == nil {
		t.Fatal("StatDownload succeeded for a missing file")
	}
	if _, err := assets.VerifyDownload(); err == nil {
		t.Fatal("VerifyDownload succeeded for a missing file")
	}
}

func TestStatDownloadPresent(t *testing.T) {
	root := t.TempDir()
	writeFixturePDF(t, root)
	assets := NewAssets(root)

	info, err := assets.StatDownload()
	if err != nil {
		t.Fatalf("StatDownload returned error: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("fixture file is empty")
	}
}

func TestContentTypeDetectsPDF(t *testing.T) {
	root := t.TempDir()
	writeFixturePDF(t, root)
	assets := NewAssets(root)

	ct := assets.ContentType()
	if !strings.HasPrefix(ct, "application/pdf") {
		t.Fatalf("ContentType = %q, want application/pdf", ct)
	}
}
