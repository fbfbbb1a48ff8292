package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/halostats/uploadserver/internal/core"
)

// uploadField is the multipart field game clients post files in.
const uploadField = "upload"

// handleStatsUpload ingests a stats container. The client only checks for
// a 200; the body is empty on success.
func (s *Server) handleStatsUpload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if _, err := s.service.IngestStats(WithRequestMetadata(r.Context(), r), up); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleCrashUpload stores a crash dump under its original file name.
func (s *Server) handleCrashUpload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if _, err := s.service.IngestCrashDump(WithRequestMetadata(r.Context(), r), up.Filename, up.Data); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// readUpload reads the "upload" part of a multipart request into memory.
// The part's own Content-Type header is the declared upload type.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Upload{}, fmt.Errorf("%w: limit is %d bytes", errFileTooLarge, tooLarge.Limit)
		}
		return core.Upload{}, fmt.Errorf("%w: %w", errInvalidForm, err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return core.Upload{}, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return core.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return core.Upload{
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
		Data:        data,
	}, nil
}
