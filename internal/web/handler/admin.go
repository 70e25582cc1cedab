package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/rz1986/gameportal/internal/model"
	"github.com/rz1986/gameportal/internal/services/catalog"
	"github.com/rz1986/gameportal/internal/web/form"
	"github.com/rz1986/gameportal/internal/web/middleware"
	"github.com/rz1986/gameportal/internal/web/templates/layout"
	"github.com/rz1986/gameportal/internal/web/templates/pages"
)

// maxUploadBytes caps the multipart body, bundle file included
const maxUploadBytes = 2 << 20

// AdminHandler serves the admin game publishing endpoints
type AdminHandler struct {
	catalogService *catalog.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(catalogService *catalog.Service) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
	}
}

// NewGamePage renders the upload form
func (h *AdminHandler) NewGamePage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	h.renderForm(w, r, pages.AdminNewGameData{})
}

// CreateGame handles the multipart upload form. The play markup comes from
// either the inline textarea or an uploaded HTML bundle.
func (h *AdminHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil || !user.IsAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderForm(w, r, pages.AdminNewGameData{Error: "Upload too large or malformed"})
		return
	}

	f, fieldErrs := form.ParseUploadGame(r)
	input := catalog.GameInput{
		Title:        f.Title,
		Slug:         f.Slug,
		Description:  f.Description,
		Instructions: f.Instructions,
		PlayMarkup:   r.PostFormValue("play_markup"),
	}

	if fieldErrs.Any() {
		h.renderForm(w, r, adminFormData(input, fieldErrs.First()))
		return
	}

	file, header, err := r.FormFile("asset")
	switch {
	case err == nil:
		defer file.Close()
		markup, readErr := io.ReadAll(file)
		if readErr != nil {
			h.renderForm(w, r, adminFormData(input, "Failed to read the uploaded bundle"))
			return
		}
		input.PlayMarkup = string(markup)
		input.AssetName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// Inline markup only.
	default:
		h.renderForm(w, r, adminFormData(input, "Failed to read the uploaded bundle"))
		return
	}

	session := middleware.GetSession(r.Context())
	game, err := h.catalogService.UploadGame(r.Context(), session.Token, input)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateSlug):
			h.renderForm(w, r, adminFormData(input, "A game with that slug already exists"))
		case errors.Is(err, model.ErrInvalidInput):
			h.renderForm(w, r, adminFormData(input, userMessage(err)))
		case errors.Is(err, model.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			h.renderForm(w, r, adminFormData(input, "Failed to publish the game"))
		}
		return
	}

	middleware.SetFlash(w, "success", "Published "+game.Title)
	http.Redirect(w, r, "/games/"+game.Slug, http.StatusSeeOther)
}

func adminFormData(input catalog.GameInput, errMsg string) pages.AdminNewGameData {
	return pages.AdminNewGameData{
		Title:        input.Title,
		Slug:         input.Slug,
		Description:  input.Description,
		Instructions: input.Instructions,
		PlayMarkup:   input.PlayMarkup,
		Error:        errMsg,
	}
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, data pages.AdminNewGameData) {
	data.PageData = layout.PageData{
		Title: "Publish a Game",
		Flash: middleware.GetFlash(r.Context()),
		User:  middleware.GetUser(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.AdminNewGame(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
