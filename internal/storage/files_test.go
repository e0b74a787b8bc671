package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":            "report.pdf",
		"my report (v2).pdf":    "my_report__v2_.pdf",
		"../../etc/passwd":      "passwd",
		`..\..\windows\cmd.txt`: "cmd.txt",
		"weird*chars?.png":      "weird_chars_.png",
		"...":                   "",
		"___":                   "",
	}
	for input, want := range cases {
		assert.Equal(t, want, SanitizeFilename(input), input)
	}
}

func TestAllowed(t *testing.T) {
	store := NewFileStore(t.TempDir(), []string{"txt", "PDF"})

	assert.True(t, store.Allowed("notes.txt"))
	assert.True(t, store.Allowed("scan.pdf"))
	assert.True(t, store.Allowed("SCAN.PDF"))
	assert.False(t, store.Allowed("shell.sh"))
	assert.False(t, store.Allowed("noextension"))
}

func TestWriteLogExport(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, nil)

	path, err := store.WriteLogExport("tech", []string{"first line", "second line"})
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "tech_logs.txt")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line\n", string(content))
}

func TestRemoveTicketTree(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, []string{"txt"})

	ticketDir := filepath.Join(dir, "ticket_attachments", "123")
	commentDir := filepath.Join(dir, "comment_attachments", "123", "2026-01-01_10_00_00")
	require.NoError(t, os.MkdirAll(ticketDir, 0o755))
	require.NoError(t, os.MkdirAll(commentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ticketDir, "a.txt"), []byte("x"), 0o644))

	require.NoError(t, store.RemoveTicketTree("123"))
	_, err := os.Stat(ticketDir)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "comment_attachments", "123"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.RemoveTicketTree(""))
}
