package web

import (
	"log"
	"net/http"
	"strings"

	"github.com/seckatie/portalwatch/internal/core/snapshot"
)

func (ws *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if r.URL.Path != "/" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ws.renderTemplate(w, "index.html", nil)
}

func (ws *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		ws.createSection(w, r)
	case http.MethodGet:
		ws.listSections(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (ws *Server) createSection(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	url := r.FormValue("url")

	if _, err := ws.db.AddSection(name, url); err != nil {
		http.Error(w, "Invalid section", http.StatusBadRequest)
		log.Printf("Failed to add section: %v", err)
		return
	}

	// For HTMX requests, return the updated list fragment directly so
	// the page can swap cleanly without a redirect.
	if r.Header.Get("HX-Request") == "true" {
		ws.listSections(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ws *Server) listSections(w http.ResponseWriter, _ *http.Request) {
	sections, err := ws.db.ListSections(0)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		log.Printf("Failed to list sections: %v", err)
		return
	}

	views := make([]sectionView, 0, len(sections))
	for _, s := range sections {
		views = append(views, sectionView{
			ID:          s.ID,
			Name:        s.Name,
			URL:         s.URL,
			HasNew:      s.HasNew,
			LastChecked: s.LastChecked,
			ItemCount:   len(s.LastSnapshot),
		})
	}
	ws.renderTemplate(w, "sections.html", map[string]any{"sections": views})
}

// handleSectionRoutes dispatches /sections/{id}/{action} requests.
func (ws *Server) handleSectionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sections/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	id, action := parts[0], parts[1]

	switch action {
	case "items":
		ws.viewItems(w, r, id)
	case "seen":
		ws.markSeen(w, r, id)
	case "check":
		ws.requestCheck(w, r, id)
	case "delete":
		ws.deleteSection(w, r, id)
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// viewItems renders the items of a section's last stored snapshot.
func (ws *Server) viewItems(w http.ResponseWriter, r *http.Request, id string) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	section, err := ws.db.GetSection(id)
	if err != nil {
		http.Error(w, "Section not found", http.StatusNotFound)
		return
	}

	items := make([]itemView, 0, len(section.LastSnapshot))
	for _, it := range section.LastSnapshot {
		if it.IsString() {
			items = append(items, itemView{Name: snapshot.IdentityOf(it), Type: "link"})
			continue
		}
		items = append(items, itemView{Name: it.Name, URL: it.URL, Type: it.Type})
	}
	ws.renderTemplate(w, "items.html", map[string]any{
		"section": sectionView{ID: section.ID, Name: section.Name, URL: section.URL},
		"items":   items,
	})
}

func (ws *Server) markSeen(w http.ResponseWriter, r *http.Request, id string) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := ws.db.MarkSectionSeen(id); err != nil {
		http.Error(w, "Section not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		ws.listSections(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requestCheck queues an out-of-schedule check; the daemon's event
// listener picks it up.
func (ws *Server) requestCheck(w http.ResponseWriter, r *http.Request, id string) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := ws.db.RequestSectionCheck(id); err != nil {
		http.Error(w, "Section not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		ws.listSections(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ws *Server) deleteSection(w http.ResponseWriter, r *http.Request, id string) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := ws.db.DeleteSection(id); err != nil {
		http.Error(w, "Section not found", http.StatusNotFound)
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		ws.listSections(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
