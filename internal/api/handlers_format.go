package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/playfmt/internal/doctree"
	"github.com/dgallion1/playfmt/internal/parser"
	"github.com/dgallion1/playfmt/internal/pipeline"
)

// scriptRequest is the body of /api/format and /api/preview.
type scriptRequest struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Scene     string `json:"scene"`
	Draft     string `json:"draft"`
	Contact   string `json:"contact"`
	Copyright string `json:"copyright"`
	Script    string `json:"script"`
	Format    string `json:"format"`
}

func (q scriptRequest) meta() doctree.Metadata {
	return doctree.Metadata{
		Title:     strings.TrimSpace(q.Title),
		Author:    strings.TrimSpace(q.Author),
		Scene:     strings.TrimSpace(q.Scene),
		Draft:     strings.TrimSpace(q.Draft),
		Contact:   strings.TrimSpace(q.Contact),
		Copyright: strings.TrimSpace(q.Copyright),
	}
}

// requestError carries the HTTP status for a rejected request.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, err := s.readScriptRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = req.Format
	}
	out, err := pipeline.ParseOutput(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	meta := req.meta()
	if err := pipeline.ValidateMetadata(meta); err != nil {
		jsonError(w, strings.ReplaceAll(err.Error(), "\n", "; "), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		jsonError(w, "script is required", http.StatusBadRequest)
		return
	}

	res, err := s.pipe.Format(r.Context(), pipeline.Request{Meta: meta, Text: req.Script, Output: out})
	if err != nil {
		s.log.Error("format failed", "title", meta.Title, "output", out, "error", err)
		jsonError(w, "formatting failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	etag := `"` + res.ContentHash + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	filename := pipeline.Filename(meta.Title, res.Extension)
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Artifact)))
	w.Write(res.Artifact)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.readScriptRequest(w, r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	res, err := s.pipe.Preview(r.Context(), req.meta(), req.Script)
	if err != nil {
		jsonError(w, "preview failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"preview":    res.Text,
		"html":       res.HTML,
		"pages":      res.Pages,
		"paragraphs": res.Document.Paragraphs(),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeRequestError(w, formError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, filename, err := s.readUpload(r)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	if data == nil {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}

	guess := true
	if v := r.FormValue("guess"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			guess = b
		}
	}

	res, err := s.pipe.Import(r.Context(), bytes.NewReader(data), filename, guess)
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, "import failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":     res.Meta.Title,
		"author":    res.Meta.Author,
		"scene":     res.Meta.Scene,
		"draft":     res.Meta.Draft,
		"contact":   res.Meta.Contact,
		"copyright": res.Meta.Copyright,
		"script":    res.Script,
		"lines":     res.Lines,
	})
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	meta, script := pipeline.Example()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"title":  meta.Title,
		"author": meta.Author,
		"scene":  meta.Scene,
		"script": script,
	})
}

// readScriptRequest decodes a JSON body or a multipart form. A multipart form
// may upload the script as "file" instead of the "script" field.
func (s *Server) readScriptRequest(w http.ResponseWriter, r *http.Request) (scriptRequest, error) {
	var req scriptRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "multipart/form-data", "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead
		if ct == "multipart/form-data" {
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				return req, formError(err)
			}
			defer r.MultipartForm.RemoveAll()
		} else if err := r.ParseForm(); err != nil {
			return req, formError(err)
		}
		req = scriptRequest{
			Title:     r.FormValue("title"),
			Author:    r.FormValue("author"),
			Scene:     r.FormValue("scene"),
			Draft:     r.FormValue("draft"),
			Contact:   r.FormValue("contact"),
			Copyright: r.FormValue("copyright"),
			Script:    r.FormValue("script"),
			Format:    r.FormValue("format"),
		}
		if ct == "multipart/form-data" && req.Script == "" {
			data, filename, err := s.readUpload(r)
			if err != nil {
				return req, err
			}
			if data != nil {
				imp, err := s.pipe.Import(r.Context(), bytes.NewReader(data), filename, false)
				if err != nil {
					return req, &requestError{http.StatusBadRequest, "cannot read script file: " + err.Error()}
				}
				req.Script = imp.Script
			}
		}
	default:
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return req, tooLarge(s.cfg.MaxUploadBytes)
			}
			return req, &requestError{http.StatusBadRequest, "invalid json: " + err.Error()}
		}
	}
	return req, nil
}

// readUpload returns the "file" part, or nil data when none was sent.
func (s *Server) readUpload(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", &requestError{http.StatusBadRequest, "invalid file: " + err.Error()}
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, "", &requestError{http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))}
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, "", &requestError{http.StatusInternalServerError, "failed to read file"}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, "", tooLarge(s.cfg.MaxUploadBytes)
	}
	return data, filename, nil
}

func formError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return tooLarge(mbe.Limit)
	}
	return &requestError{http.StatusBadRequest, "invalid form: " + err.Error()}
}

func tooLarge(limit int64) error {
	return &requestError{http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds max size (%d bytes)", limit)}
}

func (s *Server) writeRequestError(w http.ResponseWriter, err error) {
	var re *requestError
	if errors.As(err, &re) {
		jsonError(w, re.msg, re.status)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
