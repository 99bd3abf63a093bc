package handlers

import (
	"errors"
	"strconv"

	"liblend/internal/adapters/http/middleware"
	"liblend/internal/core/domain"
	"liblend/internal/core/services"
	"liblend/internal/pkg/pagination"
	"liblend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	catalogService *services.CatalogService
}

// NewBookHandler creates a new book handler
func NewBookHandler(catalogService *services.CatalogService) *BookHandler {
	return &BookHandler{
		catalogService: catalogService,
	}
}

// AddBookRequest represents add book request
type AddBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// Add adds a new book to the catalog
// @Summary Add book
// @Description Add a new book to the catalog (Admin only)
// @Tags Books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddBookRequest true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Add(c *fiber.Ctx) error {
	var req AddBookRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.Title == "" {
		return response.BadRequest(c, "Title is required")
	}
	if req.Author == "" {
		return response.BadRequest(c, "Author is required")
	}
	if req.ISBN == "" {
		return response.BadRequest(c, "ISBN is required")
	}

	actor := middleware.ActorFromCtx(c)

	input := &services.AddBookInput{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	}

	book, err := h.catalogService.AddBook(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateCode):
			return response.Conflict(c, "A book with this ISBN already exists")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "Only administrators can add books")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title, author and ISBN are required")
		default:
			return response.InternalServerError(c, "Failed to add book")
		}
	}

	return response.Created(c, "Book added successfully", fiber.Map{
		"book": book.ToResponse(),
	})
}

// List lists books
// @Summary List books
// @Description List catalog books, optionally only available ones
// @Tags Books
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param available query bool false "Only available books"
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	onlyAvailable := c.QueryBool("available", false)

	var result *services.ListBooksOutput
	var err error
	if onlyAvailable {
		result, err = h.catalogService.ListAvailable(c.Context(), params.Offset, params.Limit)
	} else {
		result, err = h.catalogService.ListBooks(c.Context(), params.Offset, params.Limit)
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", pagination.NewResponse(result.Books, params, result.Total))
}

// GetByID gets a book by ID
// @Summary Get book by ID
// @Description Get a specific catalog book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.catalogService.GetBook(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			return response.NotFound(c, "Book not found")
		default:
			return response.InternalServerError(c, "Failed to get book")
		}
	}

	return response.Success(c, "Book retrieved successfully", fiber.Map{
		"book": book.ToResponse(),
	})
}
