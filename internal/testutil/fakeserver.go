package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"todos/internal/service"
)

// Request is one HTTP request seen by a FakeServer.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// FakeServer is an in-memory todos REST service on an httptest.Server.
// Records use the wire shape {_id, title, completed}.
type FakeServer struct {
	*httptest.Server

	mu         sync.Mutex
	tasks      []service.Task
	requests   []Request
	omitID     bool
	failStatus int
}

// NewFakeServer starts a FakeServer that is closed when t finishes.
func NewFakeServer(t testing.TB) *FakeServer {
	t.Helper()
	s := &FakeServer{}

	r := chi.NewRouter()
	r.Use(s.recordRequest)
	r.Use(s.injectFailure)
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.remove)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddTask seeds a task with a generated ID and returns it.
func (s *FakeServer) AddTask(title string, completed bool) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := service.Task{ID: uuid.NewString(), Title: title, Completed: completed}
	s.tasks = append(s.tasks, t)
	return t
}

// Tasks returns a copy of the stored tasks.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Requests returns every request received so far.
func (s *FakeServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// OmitCreatedID makes POST /todos answer without an _id field.
func (s *FakeServer) OmitCreatedID(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitID = omit
}

// FailWith makes every following request answer with status.
// Zero restores normal behaviour.
func (s *FakeServer) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

func (s *FakeServer) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *FakeServer) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failStatus
		s.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FakeServer) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Tasks())
}

func (s *FakeServer) create(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	t := service.Task{ID: uuid.NewString(), Title: in.Title, Completed: in.Completed}
	s.tasks = append(s.tasks, t)
	omit := s.omitID
	s.mu.Unlock()

	if omit {
		writeJSON(w, http.StatusCreated, in)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *FakeServer) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in service.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i].Title = in.Title
			s.tasks[i].Completed = in.Completed
			writeJSON(w, http.StatusOK, s.tasks[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "todo not found"})
}

func (s *FakeServer) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "todo deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "todo not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
