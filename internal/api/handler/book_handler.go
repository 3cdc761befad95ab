package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bookswap/internal/api/middleware"
	"bookswap/internal/app/service"
	"bookswap/internal/common"
	"bookswap/internal/domain/model"
	"bookswap/internal/platform/media"

	"github.com/go-chi/chi/v5"
)

const (
	coverField = "bookCover"
	// multipart overhead allowed on top of the cover itself
	formSlack = 1 << 20
)

type BookHandler struct {
	bookService *service.BookService
}

func NewBookHandler(bs *service.BookService) *BookHandler {
	return &BookHandler{bookService: bs}
}

func (h *BookHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listBooks)                  // GET /api/books?genre=&location=&status=&q=
	r.Get("/filters", h.filterOptions)       // GET /api/books/filters
	r.Get("/owner/{ownerId}", h.listByOwner) // GET /api/books/owner/{ownerId}
	r.Get("/{id}", h.getBook)                // GET /api/books/{id}

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.With(middleware.OwnerOnly).Post("/", h.createBook)
		authed.Put("/{id}/status", h.updateStatus)
		authed.Put("/{id}", h.updateBook)
		authed.Delete("/{id}", h.deleteBook)
	})
}

func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.BookFilter{
		Genre:    strings.TrimSpace(q.Get("genre")),
		Location: strings.TrimSpace(q.Get("location")),
		Status:   model.BookStatus(strings.TrimSpace(q.Get("status"))),
		Search:   q.Get("q"),
	}
	books, err := h.bookService.List(r.Context(), filter)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) filterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.bookService.FilterOptions(r.Context())
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, opts)
}

func (h *BookHandler) listByOwner(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookService.ListByOwner(r.Context(), chi.URLParam(r, "ownerId"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, books)
}

func (h *BookHandler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, book)
}

func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	fields, cover, err := parseBookForm(w, r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	defer closeCover(cover)

	book, err := h.bookService.Create(r.Context(), userID, fields, cover)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, book)
}

type statusRequest struct {
	Status model.BookStatus `json:"status"`
}

func (h *BookHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	book, err := h.bookService.UpdateStatus(r.Context(), userID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, book)
}

func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	fields, cover, err := parseBookForm(w, r)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	defer closeCover(cover)

	book, err := h.bookService.Update(r.Context(), userID, chi.URLParam(r, "id"), fields, cover)
	if err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, book)
}

func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	if err := h.bookService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		common.RespondWithErr(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Book deleted successfully"})
}

func closeCover(img *media.Image) {
	if img == nil {
		return
	}
	if c, ok := img.Body.(io.Closer); ok {
		c.Close()
	}
}

// parseBookForm reads the multipart book form. The returned image is nil
// when no bookCover part was sent.
func parseBookForm(w http.ResponseWriter, r *http.Request) (model.BookFields, *media.Image, error) {
	var fields model.BookFields
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+formSlack)
	if err := r.ParseMultipartForm(media.MaxImageSize + formSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fields, nil, fmt.Errorf("cover image exceeds %d bytes: %w", media.MaxImageSize, common.ErrValidation)
		}
		return fields, nil, fmt.Errorf("invalid multipart form: %v: %w", err, common.ErrBadRequest)
	}

	fields = model.BookFields{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		Location:    r.FormValue("location"),
		Contact:     r.FormValue("contact"),
		OwnerID:     r.FormValue("ownerId"),
		Description: r.FormValue("description"),
	}
	if raw := strings.TrimSpace(r.FormValue("publishYear")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fields, nil, fmt.Errorf("publishYear must be a number: %w", common.ErrValidation)
		}
		fields.PublishYear = &year
	}

	file, header, err := r.FormFile(coverField)
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, nil
	}
	if err != nil {
		return fields, nil, fmt.Errorf("invalid cover upload: %v: %w", err, common.ErrBadRequest)
	}
	return fields, &media.Image{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, nil
}
