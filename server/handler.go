// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blanu/huffpack/huffman"
	"github.com/blanu/huffpack/payload"
	"github.com/blanu/huffpack/service"
	"github.com/blanu/huffpack/stats"
	"github.com/blanu/huffpack/store"
)

// Summary is the JSON description of a stored record.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OriginalSize int       `json:"original_size"`
	PackedBytes  int       `json:"packed_bytes"`
	ValidBits    int       `json:"valid_bits"`
	CreatedAt    time.Time `json:"created_at"`
}

type created struct {
	Summary
	Stats stats.Stats `json:"stats"`
}

func summarize(rec *store.Record) Summary {
	return Summary{
		ID:           rec.ID,
		Name:         rec.Name,
		OriginalSize: rec.OriginalSize,
		PackedBytes:  len(rec.Payload.Packed),
		ValidBits:    rec.Payload.BitLength,
		CreatedAt:    rec.CreatedAt,
	}
}

type PayloadHandler struct {
	svc     *service.CompressionService
	maxBody int64
}

func NewPayloadHandler(svc *service.CompressionService, maxBody int64) *PayloadHandler {
	return &PayloadHandler{svc: svc, maxBody: maxBody}
}

// fail writes the JSON error response appropriate to err.
func fail(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, huffman.ErrMalformedPayload):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNameRequired):
		status = http.StatusBadRequest
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Create compresses the raw request body and stores it under the name given by the name query parameter.
func (h *PayloadHandler) Create(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	data, err := io.ReadAll(body)
	if err != nil {
		fail(c, err)
		return
	}

	rec, st, err := h.svc.Compress(c.Request.Context(), c.Query("name"), data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created{Summary: summarize(rec), Stats: st})
}

func (h *PayloadHandler) GetByID(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summarize(rec))
}

func (h *PayloadHandler) List(c *gin.Context) {
	recs, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]Summary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(rec))
	}
	c.JSON(http.StatusOK, out)
}

// Content responds with the decompressed original.
func (h *PayloadHandler) Content(c *gin.Context) {
	data, err := h.svc.Decompress(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// Blob responds with the serialized payload, in the same form hufftool writes to files.
func (h *PayloadHandler) Blob(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	blob, err := payload.Marshal(rec.Payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", blob)
}
