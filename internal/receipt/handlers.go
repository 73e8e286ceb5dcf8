package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// maxUploadSize caps uploaded documents at 10MB, matching what receipt
// photos and PDFs realistically need.
const maxUploadSize = int64(10 << 20)

// writeJSON writes a JSON response with CORS headers set
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error response with CORS headers set
func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// detectContentType resolves the upload's media type from its part header,
// falling back to the filename extension.
func detectContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleParse accepts a receipt for parsing: either a multipart form with a
// "file" part or "text" field, or a JSON body with a "text" field. The
// request fails up front when neither is supplied; parse jobs always reach
// a terminal state and are returned inline.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.handleParseMultipart(w, r)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		writeError(w, "Either file or text is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, s.service.ParseText(req.Text))
}

func (s *Server) handleParseMultipart(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		msg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			msg = "File is too large. Maximum size is 10MB."
		}
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		// No file part; fall back to the text field
		text := r.FormValue("text")
		if text == "" {
			writeError(w, "Either file or text is required", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.service.ParseText(text))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), header.Filename)
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		writeError(w, "Only image and PDF files are supported", http.StatusBadRequest)
		return
	}

	job, err := s.service.ParseUpload(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing upload", "filename", header.Filename, "error", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleGetJob returns a stored parse job
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "Job ID required", http.StatusBadRequest)
		return
	}

	job, err := s.service.GetJob(id)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			writeError(w, "Parse job not found", http.StatusNotFound)
			return
		}
		slog.Error("Error getting parse job", "id", id, "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// handleListJobs returns all retained parse jobs, newest first
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListJobs())
}
