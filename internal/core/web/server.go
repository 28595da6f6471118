// Package web serves the management UI: the section list with
// new-content badges, add/remove forms, and last-snapshot views.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/seckatie/portalwatch/internal/core/db"
)

//go:embed templates/*.html static/*.css
var templatesFS embed.FS

type Server struct {
	db        *db.DB
	templates *template.Template
	staticFS  http.FileSystem
}

// StartServer runs the management UI until the process exits.
func StartServer(addr string, database *db.DB) {
	ws, err := newServer(database)
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	mux := http.NewServeMux()
	ws.registerRoutes(mux)

	log.Printf("Starting web server at %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Web server failed: %v", err)
	}
}

func newServer(database *db.DB) (*Server, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	staticSub, err := fs.Sub(templatesFS, "static")
	if err != nil {
		return nil, err
	}

	return &Server{
		db:        database,
		templates: templates,
		staticFS:  http.FS(staticSub),
	}, nil
}

func (ws *Server) registerRoutes(mux *http.ServeMux) {
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(ws.staticFS)))

	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/sections", ws.handleSections)
	mux.HandleFunc("/sections/", ws.handleSectionRoutes) // /sections/{id}/{action}
}
