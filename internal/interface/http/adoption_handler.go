package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/application"
	"github.com/oksasatya/pet-adoption-api/internal/domain/entity"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
)

type AdoptionHandler struct {
	Svc    *application.AdoptionService
	Logger *logrus.Logger
}

func NewAdoptionHandler(svc *application.AdoptionService, logger *logrus.Logger) *AdoptionHandler {
	return &AdoptionHandler{Svc: svc, Logger: logger}
}

type createAdoptionRequest struct {
	AnimalID            int64   `json:"animal_id" binding:"required,gt=0"`
	AdopterName         string  `json:"adopter_name" binding:"required,max=100"`
	AdopterEmail        string  `json:"adopter_email" binding:"required,email,max=100"`
	AdopterPhone        *string `json:"adopter_phone" binding:"omitempty,phone"`
	AddressCEP          string  `json:"address_cep" binding:"required,cep"`
	AddressStreet       string  `json:"address_street" binding:"required,max=200"`
	AddressNumber       string  `json:"address_number" binding:"required,max=20"`
	AddressComplement   *string `json:"address_complement" binding:"omitempty,max=200"`
	AddressNeighborhood *string `json:"address_neighborhood" binding:"omitempty,max=100"`
	AddressCity         string  `json:"address_city" binding:"required,max=100"`
	AddressState        string  `json:"address_state" binding:"required,uf"`
	AdoptionMessage     *string `json:"adoption_message" binding:"omitempty,max=2000"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,adoptionstatus"`
}

func (h *AdoptionHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "adoptions retrieved", map[string]any{"count": len(list)})
}

func (h *AdoptionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ad, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ad, "adoption retrieved", nil)
}

func (h *AdoptionHandler) Create(c *gin.Context) {
	var req createAdoptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ad, err := h.Svc.Create(c.Request.Context(), application.CreateAdoptionInput{
		AnimalID:            req.AnimalID,
		AdopterName:         req.AdopterName,
		AdopterEmail:        req.AdopterEmail,
		AdopterPhone:        req.AdopterPhone,
		AddressCEP:          req.AddressCEP,
		AddressStreet:       req.AddressStreet,
		AddressNumber:       req.AddressNumber,
		AddressComplement:   req.AddressComplement,
		AddressNeighborhood: req.AddressNeighborhood,
		AddressCity:         req.AddressCity,
		AddressState:        req.AddressState,
		AdoptionMessage:     req.AdoptionMessage,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, ad, "adoption requested", nil)
}

func (h *AdoptionHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	ad, err := h.Svc.UpdateStatus(c.Request.Context(), id, entity.AdoptionStatus(req.Status))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, ad, "adoption status updated", nil)
}

func (h *AdoptionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"id": id}, "adoption deleted", nil)
}
