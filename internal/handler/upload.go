package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/config"
	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 5 << 20

type UploadHandler struct {
	Config config.Config
}

func (h UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads", h.upload)
}

func (h UploadHandler) RegisterStaticRoutes(r chi.Router) {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.Config.UploadDir)))
	r.Get("/uploads/*", fs.ServeHTTP)
}

func (h UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// Sniff the real content type rather than trusting the header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".bin"
	}
	name := fmt.Sprintf("%s_%s%s", time.Now().Format("20060102150405"), randomHex(8), ext)

	dst, err := os.Create(filepath.Join(h.Config.UploadDir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	base := strings.TrimSuffix(h.Config.PublicBaseURL, "/")
	writeJSON(w, http.StatusCreated, map[string]any{
		"url":      fmt.Sprintf("%s/uploads/%s", base, name),
		"filename": name,
		"size":     header.Size,
	})
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
