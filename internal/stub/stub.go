// Package stub is an in-memory stand-in for the portfolio backend and the
// media CDN. It serves the exact REST surface the client consumes and is
// used by the local stubserver binary and by integration-style tests. It is
// not a production server: state lives in process memory and authentication
// is a single fixed bearer token.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascollins/portfolioctl/internal/middleware"
	"github.com/ascollins/portfolioctl/internal/models"
)

// Server holds the in-memory backend state.
type Server struct {
	mu sync.Mutex

	token string
	log   *zap.Logger

	user         models.User
	projects     []models.Project
	achievements []models.Achievement
	activities   []models.Activity
	settings     []models.SettingsItem

	nextID int64
}

// New creates an empty Server accepting the given bearer token.
func New(token string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		token:  token,
		log:    log,
		user:   models.User{Name: "New Student", Role: "STUDENT", Version: 1},
		nextID: 1,
	}
}

// Seed replaces the stored state with demo content for local development.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = models.User{
		Name:    "Avery Collins",
		Email:   "avery.collins@campus.edu",
		Role:    "STUDENT",
		Bio:     "CS student focused on human-friendly AI tools.",
		Avatar:  "https://api.dicebear.com/8.x/thumbs/svg?seed=avery",
		GitHub:  "https://github.com/averycollins",
		Version: 1,
	}
	s.projects = []models.Project{
		{
			ID: s.takeID(), Title: "Campus Compass",
			Description: "Mobile companion to navigate campus and events.",
			TechStack:   []string{"Next.js", "Expo", "Maps"},
			Status:      models.StatusLive,
			RepoLink:    "https://github.com/example/campus-compass",
			Version:     1,
		},
		{
			ID: s.takeID(), Title: "Study Buddy",
			Description: "AI study planner that turns syllabi into sprints.",
			TechStack:   []string{"Next.js", "Prisma", "AI"},
			Status:      models.StatusBuilding,
			Version:     1,
		},
	}
	s.achievements = []models.Achievement{
		{ID: s.takeID(), Title: "Hackathon winner", Description: "Real-time shuttle tracker.", Date: "2024-10-01T00:00:00Z", Version: 1},
	}
	s.activities = []models.Activity{
		{Title: "Generated AI cover letter", Timestamp: "12m ago", Status: models.ActivityDone},
		{Title: "Refined project brief", Timestamp: "2h ago", Status: models.ActivityInProgress},
		{Title: "Booked mentor session", Timestamp: "Yesterday", Status: models.ActivityDraft},
	}
	s.settings = []models.SettingsItem{
		{Title: "Account protection", Description: "Sign-in alerts and device approvals.", Enabled: true},
		{Title: "AI assist", Description: "Use AI suggestions while drafting.", Enabled: true},
		{Title: "Privacy", Description: "Limit profile visibility to cohort.", Enabled: false},
	}
}

// takeID hands out the next entity id. Callers hold the lock.
func (s *Server) takeID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// Router constructs the HTTP handler serving the backend API plus the CDN
// upload endpoint under /upload.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(s.log))

	// The CDN endpoint authorizes via signed form fields, not the bearer
	// token, so it sits outside the auth group.
	r.Post("/upload", s.handleUpload)

	r.Group(func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(middleware.BearerAuth(s.token))

		r.Route("/user/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handlePutProfile)

			r.Get("/projects", s.handleListProjects)
			r.Post("/project", s.handleCreateProject)
			r.Put("/project/{id}", s.handleUpdateProject)
			r.Delete("/project/{id}", s.handleDeleteProject)

			r.Get("/achievements", s.handleListAchievements)
			r.Post("/achievement", s.handleCreateAchievement)
			r.Put("/achievement/{id}", s.handleUpdateAchievement)
			r.Delete("/achievement/{id}", s.handleDeleteAchievement)

			r.Get("/activity", s.handleActivities)
			r.Get("/settings", s.handleSettings)
		})

		r.Get("/media/authenticate-upload", s.handleAuthenticateUpload)
		r.Post("/sandbox", s.handleSandbox)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Version != s.user.Version {
		writeErr(w, http.StatusConflict, "profile was changed by another session")
		return
	}
	u.Version = s.user.Version + 1
	s.user = u
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Project(nil), s.projects...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if p.Title == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	p.ID = s.takeID()
	p.Version = 1
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if p.Version != s.projects[i].Version {
			writeErr(w, http.StatusConflict, "project was changed by another session")
			return
		}
		p.ID = id
		p.Version = s.projects[i].Version + 1
		s.projects[i] = p
		writeJSON(w, http.StatusOK, p)
		return
	}
	writeErr(w, http.StatusNotFound, fmt.Sprintf("project %d not found", id))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeErr(w, http.StatusNotFound, fmt.Sprintf("project %d not found", id))
}

func (s *Server) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Achievement(nil), s.achievements...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"achievements": out})
}

func (s *Server) handleCreateAchievement(w http.ResponseWriter, r *http.Request) {
	var a models.Achievement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	if a.Title == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	a.ID = s.takeID()
	a.Version = 1
	s.achievements = append(s.achievements, a)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	var a models.Achievement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.achievements {
		if s.achievements[i].ID != id {
			continue
		}
		if a.Version != s.achievements[i].Version {
			writeErr(w, http.StatusConflict, "achievement was changed by another session")
			return
		}
		a.ID = id
		a.Version = s.achievements[i].Version + 1
		s.achievements[i] = a
		writeJSON(w, http.StatusOK, a)
		return
	}
	writeErr(w, http.StatusNotFound, fmt.Sprintf("achievement %d not found", id))
}

func (s *Server) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.achievements {
		if s.achievements[i].ID == id {
			s.achievements = append(s.achievements[:i], s.achievements[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeErr(w, http.StatusNotFound, fmt.Sprintf("achievement %d not found", id))
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Activity(nil), s.activities...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"activities": out})
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.SettingsItem(nil), s.settings...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"settings": out})
}

func (s *Server) handleAuthenticateUpload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     uuid.NewString(),
		"expire":    time.Now().Add(10 * time.Minute).Unix(),
		"signature": uuid.NewString(),
	})
}

func (s *Server) handleSandbox(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"sandboxId": uuid.NewString()})
}

// handleUpload is the media CDN stand-in: it accepts the multipart upload
// and returns a canonical URL for the stored file.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	if r.FormValue("token") == "" || r.FormValue("signature") == "" {
		writeErr(w, http.StatusUnauthorized, "missing upload authorization")
		return
	}
	name := r.FormValue("fileName")
	if name == "" {
		name = uuid.NewString()
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing file")
		return
	}
	_ = file.Close()

	writeJSON(w, http.StatusOK, map[string]string{
		"url": "https://ik.imagekit.io/portfolio/" + name,
	})
}
