package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-cms-backend/internal/landing"
	"storefront-cms-backend/internal/service"
)

// imageFieldPrefix names multipart file fields carrying a banner image:
// "image:<sectionId>".
const imageFieldPrefix = "image:"

var errMissingPayload = errors.New("payload is required")

type landingPageRequest struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Sections json.RawMessage `json:"sections"`
}

type LandingPageHandler struct {
	landingService service.LandingPageUseCase
}

func NewLandingPageHandler(landingService service.LandingPageUseCase) *LandingPageHandler {
	return &LandingPageHandler{landingService: landingService}
}

// Editor returns a stored landing page in editor shape.
func (h *LandingPageHandler) Editor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.landingService.Editor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"editor": view})
}

// NewSection returns a section of the requested kind with its defaults.
func (h *LandingPageHandler) NewSection(c *gin.Context) {
	kind, ok := landing.ParseKind(c.Query("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown section kind %q", c.Query("kind"))})
		return
	}

	section, err := landing.NewSection(kind)
	if err != nil {
		respondError(c, err)
		return
	}

	encoded, err := landing.MarshalSections([]landing.Section{section})
	if err != nil {
		respondError(c, err)
		return
	}

	var sections []json.RawMessage
	if err := json.Unmarshal(encoded, &sections); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"section": sections[0]})
}

func (h *LandingPageHandler) Create(c *gin.Context) {
	h.submit(c, 0)
}

func (h *LandingPageHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.submit(c, id)
}

// Validate checks a landing page without uploading or saving it.
func (h *LandingPageHandler) Validate(c *gin.Context) {
	req, err := bindSubmitRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.landingService.Validate(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *LandingPageHandler) submit(c *gin.Context, id uint) {
	req, err := bindSubmitRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.PageID = id

	page, err := h.landingService.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"page": page})
}

// bindSubmitRequest reads either a JSON body or a multipart form with a
// "payload" JSON field plus one "image:<sectionId>" file per banner.
func bindSubmitRequest(c *gin.Context) (service.SubmitRequest, error) {
	var (
		body   landingPageRequest
		images map[string]landing.PendingImage
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			return service.SubmitRequest{}, fmt.Errorf("failed to parse form: %w", err)
		}
		payload := form.Value["payload"]
		if len(payload) == 0 || strings.TrimSpace(payload[0]) == "" {
			return service.SubmitRequest{}, errMissingPayload
		}
		if err := json.Unmarshal([]byte(payload[0]), &body); err != nil {
			return service.SubmitRequest{}, fmt.Errorf("invalid payload: %w", err)
		}

		images = make(map[string]landing.PendingImage)
		for field, files := range form.File {
			if !strings.HasPrefix(field, imageFieldPrefix) || len(files) == 0 {
				continue
			}
			sectionID := strings.TrimPrefix(field, imageFieldPrefix)
			if sectionID == "" {
				return service.SubmitRequest{}, fmt.Errorf("image field %q has no section id", field)
			}
			images[sectionID] = landing.PendingFromMultipart(files[0])
		}
	} else if err := c.ShouldBindJSON(&body); err != nil {
		return service.SubmitRequest{}, err
	}

	var sections []landing.Section
	if len(body.Sections) > 0 && string(body.Sections) != "null" {
		decoded, err := landing.UnmarshalSections(body.Sections)
		if err != nil {
			return service.SubmitRequest{}, fmt.Errorf("invalid sections: %w", err)
		}
		sections = decoded
	}

	return service.SubmitRequest{
		Title:    body.Title,
		Content:  body.Content,
		Sections: sections,
		Images:   images,
	}, nil
}
