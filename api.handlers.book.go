package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// BooksPath is the collection path of the book resource.
const BooksPath = "/api/books"

// GetAllBooks godoc
// @Summary List all books
// @Tags books
// @Produce json
// @Success 200 {array} Book
// @Failure 500 {object} APIError
// @Router /api/books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusInternalServerError, "failed to get all books", nil))
		return
	}
	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.Int("books.total", len(books)))
	if err = WriteResponse(r.Context(), w, http.StatusOK, books); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneBook godoc
// @Summary Fetch a book
// @Tags books
// @Produce json
// @Param id path string true "24 characters book id"
// @Success 200 {object} Book
// @Failure 404 {object} APIError
// @Router /api/books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("id")
	if !api.idsHandler.IsValidBookID(id) {
		api.writeRouteNotFound(w, r, requestID)
		return
	}

	book, err := api.bookService.GetOne(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.logger.Info("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.sendError(w, r, NewAPIError(requestID, http.StatusNotFound, "book does not exist", nil))
		return
	}
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusInternalServerError, "failed to get the book", nil))
		return
	}
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteResponse(r.Context(), w, http.StatusOK, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateBook godoc
// @Summary Create a book
// @Description The id is assigned by the storage. Any id in the payload is ignored.
// @Tags books
// @Accept json
// @Produce json
// @Param book body Book true "book to create"
// @Success 201 {object} Book
// @Header 201 {string} Location "/api/books/{id}"
// @Failure 400 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var book Book
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := DecodeBookRequestBody(w, r, &book); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusBadRequest, "failed to create the book", err.Error()))
		return
	}

	book, err := api.bookService.Add(r.Context(), book)
	if err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusInternalServerError, "failed to create the book", nil))
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	w.Header().Set("Location", BooksPath+"/"+book.ID)
	if err = WriteResponse(r.Context(), w, http.StatusCreated, book); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReplaceBook godoc
// @Summary Replace a book
// @Description All fields are replaced. A missing book is never created.
// @Tags books
// @Accept json
// @Param id path string true "24 characters book id"
// @Param book body Book true "new book content"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 500 {object} APIError
// @Router /api/books/{id} [put]
func (api *APIHandler) ReplaceBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var book Book
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("id")
	if !api.idsHandler.IsValidBookID(id) {
		api.writeRouteNotFound(w, r, requestID)
		return
	}

	if err := DecodeBookRequestBody(w, r, &book); err != nil {
		api.logger.Error("failed to replace book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusBadRequest, "failed to replace the book", err.Error()))
		return
	}

	found, err := api.bookService.Replace(r.Context(), id, book)
	if err != nil {
		api.logger.Error("failed to replace book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusInternalServerError, "failed to replace the book", nil))
		return
	}
	if !found {
		api.logger.Info("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.sendError(w, r, NewAPIError(requestID, http.StatusNotFound, "book does not exist", nil))
		return
	}
	api.logger.Info("success to replace book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err = WriteNoContent(r.Context(), w); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary Delete a book
// @Description Deleting a missing book succeeds as well.
// @Tags books
// @Param id path string true "24 characters book id"
// @Success 204
// @Failure 500 {object} APIError
// @Router /api/books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := ps.ByName("id")
	if !api.idsHandler.IsValidBookID(id) {
		api.writeRouteNotFound(w, r, requestID)
		return
	}

	if err := api.bookService.Delete(r.Context(), id); err != nil {
		api.logger.Error("failed to delete book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(w, r, NewAPIError(requestID, http.StatusInternalServerError, "failed to delete the book", nil))
		return
	}
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	if err := WriteNoContent(r.Context(), w); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, errResp *APIError) {
	if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", errResp.RequestID), zap.Error(err))
	}
}
