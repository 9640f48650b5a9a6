package handler

import (
	"net/http"

	"epub-reader-engine/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"epub-reader-engine"}`))
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(RequestLogging(container.Logger))

	// Initialize handlers
	sessionHandler := NewSessionHandler(container)
	bookmarkHandler := NewBookmarkHandler(container)
	highlightHandler := NewHighlightHandler(container)
	noteHandler := NewNoteHandler(container)
	libraryHandler := NewLibraryHandler(container)

	// Session routes
	api.HandleFunc("/sessions/{bookKey}/open", sessionHandler.OpenSession).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/close", sessionHandler.CloseSession).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/progress", sessionHandler.GetProgress).Methods("GET")
	api.HandleFunc("/sessions/{bookKey}/navigate", sessionHandler.Navigate).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/resize", sessionHandler.Resize).Methods("POST")

	// Bookmark routes
	api.HandleFunc("/sessions/{bookKey}/bookmarks", bookmarkHandler.ListBookmarks).Methods("GET")
	api.HandleFunc("/sessions/{bookKey}/bookmarks/toggle", bookmarkHandler.ToggleBookmark).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/bookmarks", bookmarkHandler.RemoveBookmark).Methods("DELETE")

	// Highlight routes
	api.HandleFunc("/sessions/{bookKey}/highlights", highlightHandler.ListHighlights).Methods("GET")
	api.HandleFunc("/sessions/{bookKey}/highlights", highlightHandler.CreateHighlight).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/highlights/{id}", highlightHandler.RemoveHighlight).Methods("DELETE")

	// Note routes
	api.HandleFunc("/sessions/{bookKey}/notes", noteHandler.ListNotes).Methods("GET")
	api.HandleFunc("/sessions/{bookKey}/notes", noteHandler.CreateNote).Methods("POST")
	api.HandleFunc("/sessions/{bookKey}/notes/{id}", noteHandler.UpdateNote).Methods("PUT")
	api.HandleFunc("/sessions/{bookKey}/notes/{id}", noteHandler.RemoveNote).Methods("DELETE")

	// Reading list routes
	api.HandleFunc("/reading-lists", libraryHandler.ListReadingLists).Methods("GET")
	api.HandleFunc("/reading-lists", libraryHandler.CreateReadingList).Methods("POST")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
