package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects the public and book related endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))
	router.GET(BooksPath, m.public(api.GetAllBooks))
	router.POST(BooksPath, m.public(api.CreateBook))
	router.GET(BooksPath+"/:id", m.public(api.GetOneBook))
	router.PUT(BooksPath+"/:id", m.public(api.ReplaceBook))
	router.DELETE(BooksPath+"/:id", m.public(api.DeleteOneBook))
	return router
}
