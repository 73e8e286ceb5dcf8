package receipt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vendhub/receiptd/internal/ocr"
)

// Service coordinates upload archival, text extraction and parse
// submission.
type Service struct {
	jobs        *JobStore
	extractor   ocr.Extractor
	archive     Archive
	idGenerator IDGenerator
}

// NewService creates a new Service with the default ID generator.
func NewService(jobs *JobStore, extractor ocr.Extractor, archive Archive) *Service {
	return NewServiceWithDeps(jobs, extractor, archive, &uuidGenerator{})
}

// NewServiceWithDeps creates a new Service with a custom ID generator for
// testing. The generator names archived files, not jobs.
func NewServiceWithDeps(jobs *JobStore, extractor ocr.Extractor, archive Archive, idGen IDGenerator) *Service {
	return &Service{
		jobs:        jobs,
		extractor:   extractor,
		archive:     archive,
		idGenerator: idGen,
	}
}

var (
	filenameJunk   = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up phone-generated filenames before archival:
// strips special characters, collapses whitespace, truncates the base name.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameJunk.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ParseText submits raw receipt text directly; the extraction step is
// skipped.
func (s *Service) ParseText(text string) *Job {
	return s.jobs.Submit(text)
}

// ParseUpload archives the uploaded document, extracts its text, and
// submits the text for parsing. Extraction failures are surfaced to the
// caller before any job exists, and the archived file is removed again.
func (s *Service) ParseUpload(filename string, data []byte, contentType string) (*Job, error) {
	name := fmt.Sprintf("%s_%s", s.idGenerator.Generate(), sanitizeFilename(filename))

	savedPath, err := s.archive.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("archiving upload: %w", err)
	}

	text, err := s.extractor.ExtractText(data, contentType)
	if err != nil {
		slog.Error("Failed to extract text from upload",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Keep the archive consistent with the job table
		s.archive.Delete(savedPath)
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	return s.jobs.Submit(text), nil
}

// GetJob retrieves a parse job by ID.
func (s *Service) GetJob(id string) (*Job, error) {
	return s.jobs.Get(id)
}

// ListJobs returns all retained parse jobs, newest first.
func (s *Service) ListJobs() []*Job {
	return s.jobs.List()
}
