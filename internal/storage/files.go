package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	ticketAttachmentsDir  = "ticket_attachments"
	commentAttachmentsDir = "comment_attachments"
	logExportsDir         = "logs"
)

// commentStampLayout names the per-comment subdirectory.
const commentStampLayout = "2006-01-02_15_04_05"

// FileStore writes attachments and log exports under a single root
// directory. Filesystem writes are not transactional with the
// database; a crash between the two can orphan either side.
type FileStore struct {
	root    string
	allowed map[string]struct{}
}

// NewFileStore builds a store rooted at dir, accepting only the given
// file extensions (lowercase, without dots).
func NewFileStore(dir string, allowedExtensions []string) *FileStore {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &FileStore{root: dir, allowed: allowed}
}

// Allowed reports whether the filename carries an accepted extension.
func (s *FileStore) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// SaveTicketAttachment stores an uploaded file under the ticket's
// directory and returns the sanitized filename and full path.
func (s *FileStore) SaveTicketAttachment(file *multipart.FileHeader, ticketID string) (string, string, error) {
	dir := filepath.Join(s.root, ticketAttachmentsDir, ticketID)
	return s.save(file, dir)
}

// SaveCommentAttachment stores an uploaded file under a per-comment
// subdirectory keyed by the comment's creation time.
func (s *FileStore) SaveCommentAttachment(file *multipart.FileHeader, ticketID string, commentAt time.Time) (string, string, error) {
	dir := filepath.Join(s.root, commentAttachmentsDir, ticketID, commentAt.Format(commentStampLayout))
	return s.save(file, dir)
}

func (s *FileStore) save(file *multipart.FileHeader, dir string) (string, string, error) {
	filename := SanitizeFilename(file.Filename)
	if filename == "" || !s.Allowed(filename) {
		return "", "", fmt.Errorf("file type not allowed: %s", file.Filename)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	path := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return filename, path, nil
}

// RemoveTicketTree deletes every stored file belonging to a ticket,
// including all of its comment attachment directories.
func (s *FileStore) RemoveTicketTree(ticketID string) error {
	if ticketID == "" {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(s.root, ticketAttachmentsDir, ticketID)); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.root, commentAttachmentsDir, ticketID))
}

// WriteLogExport writes audit lines to a timestamped export file and
// returns its path.
func (s *FileStore) WriteLogExport(category string, lines []string) (string, error) {
	dir := filepath.Join(s.root, logExportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s_%s_logs.txt", time.Now().Format("2006-01-02_15-04-05"), category)
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return "", err
		}
	}
	return path, nil
}

// SanitizeFilename strips path components and replaces characters that
// are unsafe in stored filenames.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}
