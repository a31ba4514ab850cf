package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

// MaxImageBytes caps animal picture uploads.
const MaxImageBytes = 5 << 20

type AnimalHandler struct {
	Svc    *application.AnimalService
	Logger *logrus.Logger
}

func NewAnimalHandler(svc *application.AnimalService, logger *logrus.Logger) *AnimalHandler {
	return &AnimalHandler{Svc: svc, Logger: logger}
}

type createAnimalRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Species     string  `json:"species" binding:"required,max=50"`
	Age         string  `json:"age" binding:"required,max=50"`
	Size        string  `json:"size" binding:"required,max=50"`
	Temperament string  `json:"temperament" binding:"required,max=200"`
	City        string  `json:"city" binding:"required,max=100"`
	Status      string  `json:"status" binding:"omitempty,animalstatus"`
	Image       *string `json:"image" binding:"omitempty,url,max=500"`
	Description string  `json:"description" binding:"required"`
	History     string  `json:"history" binding:"required"`
}

type updateAnimalRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Species     *string `json:"species" binding:"omitempty,min=1,max=50"`
	Age         *string `json:"age" binding:"omitempty,min=1,max=50"`
	Size        *string `json:"size" binding:"omitempty,min=1,max=50"`
	Temperament *string `json:"temperament" binding:"omitempty,min=1,max=200"`
	City        *string `json:"city" binding:"omitempty,min=1,max=100"`
	Status      *string `json:"status" binding:"omitempty,animalstatus"`
	Image       *string `json:"image" binding:"omitempty,url,max=500"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	History     *string `json:"history" binding:"omitempty,min=1"`
}

func (r updateAnimalRequest) patch() entity.AnimalPatch {
	p := entity.AnimalPatch{
		Name:        r.Name,
		Species:     r.Species,
		Age:         r.Age,
		Size:        r.Size,
		Temperament: r.Temperament,
		City:        r.City,
		Image:       r.Image,
		Description: r.Description,
		History:     r.History,
	}
	if r.Status != nil {
		st := entity.AnimalStatus(*r.Status)
		p.Status = &st
	}
	return p
}

func (h *AnimalHandler) List(c *gin.Context) {
	page, err1 := queryInt(c, "page", 1)
	perPage, err2 := queryInt(c, "per_page", application.DefaultPerPage)
	if err1 != nil || err2 != nil {
		writeError(c, h.Logger, application.ErrInvalidPagination)
		return
	}
	res, err := h.Svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "animals retrieved", nil)
}

func (h *AnimalHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit", application.DefaultSearchLimit)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "limit must be an integer", nil)
		return
	}
	items, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, items, "animals found", map[string]any{"count": len(items)})
}

func (h *AnimalHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "animal retrieved", nil)
}

func (h *AnimalHandler) Create(c *gin.Context) {
	var req createAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	a, err := h.Svc.Create(c.Request.Context(), application.CreateAnimalInput{
		Name:        req.Name,
		Species:     req.Species,
		Age:         req.Age,
		Size:        req.Size,
		Temperament: req.Temperament,
		City:        req.City,
		Status:      entity.AnimalStatus(req.Status),
		Image:       req.Image,
		Description: req.Description,
		History:     req.History,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "animal created", nil)
}

func (h *AnimalHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	a, err := h.Svc.Update(c.Request.Context(), id, req.patch())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "animal updated", nil)
}

func (h *AnimalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	removed, err := h.Svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id, "adoptions_removed": removed}, "animal deleted", nil)
}

// UploadImage accepts a multipart form with the picture in the "image" field.
func (h *AnimalHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageBytes+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.Error(c, http.StatusRequestEntityTooLarge, "image too large", nil)
			return
		}
		response.Error(c, http.StatusBadRequest, "image file is required", map[string]string{"image": "is required"})
		return
	}
	if fh.Size > MaxImageBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "image too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	// trust the bytes, not the client supplied header
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(c, h.Logger, err)
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	a, err := h.Svc.UploadImage(c.Request.Context(), id, contentType, io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "image uploaded", nil)
}
