package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"client-registry/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type ClientHandler struct {
	clients *service.ClientService
}

var registerValidations sync.Once

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	// binding errors name fields the way service validation does
	registerValidations.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := service.RegisterValidations(v); err != nil {
				panic(err)
			}
		}
	})
	return &ClientHandler{clients: clients}
}

// createClientRequest is bound from JSON or from a (multipart) form. Blank
// strings count as not supplied.
type createClientRequest struct {
	Name         string       `form:"name" json:"name" binding:"required,max=250"`
	Slug         string       `form:"slug" json:"slug" binding:"required,max=100"`
	IsProject    optionalBool `form:"is_project" json:"is_project"`
	SelfCapture  optionalBool `form:"self_capture" json:"self_capture"`
	ClientPrefix string       `form:"client_prefix" json:"client_prefix" binding:"required,max=4"`
	Address      *string      `form:"address" json:"address"`
	PhoneNumber  *string      `form:"phone_number" json:"phone_number" binding:"omitempty,max=50"`
	City         *string      `form:"city" json:"city" binding:"omitempty,max=50"`
}

type updateClientRequest struct {
	Name         *string      `form:"name" json:"name" binding:"omitempty,max=250"`
	IsProject    optionalBool `form:"is_project" json:"is_project"`
	SelfCapture  optionalBool `form:"self_capture" json:"self_capture"`
	ClientPrefix *string      `form:"client_prefix" json:"client_prefix" binding:"omitempty,max=4"`
	Address      *string      `form:"address" json:"address"`
	PhoneNumber  *string      `form:"phone_number" json:"phone_number" binding:"omitempty,max=50"`
	City         *string      `form:"city" json:"city" binding:"omitempty,max=50"`
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient handles POST /clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	logo, err := readLogo(c)
	if err != nil {
		respondError(c, err)
		return
	}

	client, err := h.clients.Create(c.Request.Context(), service.CreateInput{
		Name:         strings.TrimSpace(req.Name),
		Slug:         strings.TrimSpace(req.Slug),
		ClientPrefix: strings.TrimSpace(req.ClientPrefix),
		IsProject:    req.IsProject.value,
		SelfCapture:  req.SelfCapture.value,
		Address:      blankToNil(req.Address),
		PhoneNumber:  blankToNil(req.PhoneNumber),
		City:         blankToNil(req.City),
		Logo:         logo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ShowClient handles GET /clients/:slug
func (h *ClientHandler) ShowClient(c *gin.Context) {
	client, err := h.clients.Show(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles PUT and PATCH /clients/:slug
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req updateClientRequest
	if err := bindRequest(c, &req); err != nil {
		respondError(c, err)
		return
	}
	logo, err := readLogo(c)
	if err != nil {
		respondError(c, err)
		return
	}

	client, err := h.clients.Update(c.Request.Context(), c.Param("slug"), service.UpdateInput{
		Name:         blankToNil(req.Name),
		ClientPrefix: blankToNil(req.ClientPrefix),
		IsProject:    req.IsProject.value,
		SelfCapture:  req.SelfCapture.value,
		Address:      blankToNil(req.Address),
		PhoneNumber:  blankToNil(req.PhoneNumber),
		City:         blankToNil(req.City),
		Logo:         logo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /clients/:slug
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindRequest binds the body into req. An empty body binds nothing.
func bindRequest(c *gin.Context, req any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return service.ValidationError(c.ShouldBind(req))
}

// readLogo returns the "logo" file of a multipart request, or nil when the
// request carries none.
func readLogo(c *gin.Context) (*service.Upload, error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	header, err := c.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, service.Err(service.ErrValidation, err, "invalid logo upload")
	}
	if header.Size > service.MaxLogoBytes {
		return nil, service.Err(service.ErrValidation, nil,
			"logo must not exceed %d kilobytes", service.MaxLogoBytes>>10)
	}

	data, err := readFile(header)
	if err != nil {
		return nil, fmt.Errorf("read logo upload: %w", err)
	}
	return &service.Upload{Data: data}, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, service.MaxLogoBytes+1))
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
