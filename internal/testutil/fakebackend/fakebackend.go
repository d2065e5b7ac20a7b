// Package fakebackend is an in-memory stand-in for the document backend,
// served over httptest for end-to-end tests of the client, CLI, TUI and
// MCP adapters.
package fakebackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Route names used by Calls and Fail.
const (
	RouteListCollections  = "list_collections"
	RouteCreateCollection = "create_collection"
	RouteDeleteCollection = "delete_collection"
	RouteListDocuments    = "list_documents"
	RouteDeleteDocument   = "delete_document"
	RouteChunks           = "chunks"
	RouteUpload           = "upload"
	RouteUploadText       = "upload_text"
	RouteQuery            = "query"
	RouteHealth           = "health"
)

// Failure is an injected error response.
type Failure struct {
	Status int
	Detail string
}

// Upload records an accepted upload.
type Upload struct {
	Filename   string
	Collection string
	Body       string
}

// QueryRequest records a received query body.
type QueryRequest struct {
	Query       string `json:"query"`
	Collections string `json:"collections"`
}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	collections []string
	documents   []domain.Document
	chunks      map[int64][]domain.Chunk
	results     []domain.QueryResult
	rawDocs     string
	nextID      int64
	calls       map[string]int
	failures    map[string]Failure
	queries     []QueryRequest
	uploads     []Upload
}

// New starts a fake backend seeded with the Default collection and
// registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		collections: []string{domain.DefaultCollectionName},
		chunks:      make(map[int64][]domain.Chunk),
		nextID:      1,
		calls:       make(map[string]int),
		failures:    make(map[string]Failure),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.UseEncodedPath()

	r.HandleFunc("/health", s.handle(RouteHealth, s.health)).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/collections", s.handle(RouteListCollections, s.listCollections)).Methods(http.MethodGet)
	api.HandleFunc("/collections", s.handle(RouteCreateCollection, s.createCollection)).Methods(http.MethodPost)
	api.HandleFunc("/collections/{name}", s.handle(RouteDeleteCollection, s.deleteCollection)).Methods(http.MethodDelete)
	api.HandleFunc("/documents", s.handle(RouteListDocuments, s.listDocuments)).Methods(http.MethodGet)
	api.HandleFunc("/documents/upload", s.handle(RouteUpload, s.upload)).Methods(http.MethodPost)
	api.HandleFunc("/documents/upload/text", s.handle(RouteUploadText, s.uploadText)).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id:[0-9]+}", s.handle(RouteDeleteDocument, s.deleteDocument)).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id:[0-9]+}/chunks", s.handle(RouteChunks, s.documentChunks)).Methods(http.MethodGet)
	api.HandleFunc("/query", s.handle(RouteQuery, s.query)).Methods(http.MethodPost)
	return r
}

// handle counts the call and serves an injected failure if one is set.
func (s *Server) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		failure, failing := s.failures[route]
		s.mu.Unlock()

		if failing {
			writeError(w, failure.Status, failure.Detail)
			return
		}
		next(w, r)
	}
}

// SetCollections replaces the collection names.
func (s *Server) SetCollections(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append([]string(nil), names...)
}

// AddDocument stores a document and returns its id. A zero ID is assigned.
func (s *Server) AddDocument(doc domain.Document, chunks ...domain.Chunk) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == 0 {
		doc.ID = s.nextID
	}
	if doc.ID >= s.nextID {
		s.nextID = doc.ID + 1
	}
	if doc.ChunkCount == 0 {
		doc.ChunkCount = len(chunks)
	}
	s.documents = append(s.documents, doc)
	s.chunks[doc.ID] = chunks
	return doc.ID
}

// SetRawDocuments makes GET /api/documents return body verbatim.
func (s *Server) SetRawDocuments(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawDocs = body
}

// SetQueryResults sets the results returned for every query.
func (s *Server) SetQueryResults(results ...domain.QueryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append([]domain.QueryResult(nil), results...)
}

// Fail makes route respond with status and a {"detail"} body until Recover.
func (s *Server) Fail(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = Failure{Status: status, Detail: detail}
}

// Recover clears an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Calls returns how many requests route has received.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// ResetCalls zeroes every counter.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// Queries returns the query bodies received so far.
func (s *Server) Queries() []QueryRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]QueryRequest(nil), s.queries...)
}

// Uploads returns the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Collections returns the current collection names.
func (s *Server) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.collections...)
}

// Documents returns the current documents.
func (s *Server) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Document(nil), s.documents...)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) listCollections(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.collections)
}

func (s *Server) createCollection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "Collection name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c == body.Name {
			writeError(w, http.StatusConflict, "Collection already exists")
			return
		}
	}
	s.collections = append(s.collections, body.Name)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Collection created successfully"})
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)["name"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid collection name")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.collections {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "Collection not found")
		return
	}
	s.collections = append(s.collections[:idx], s.collections[idx+1:]...)

	kept := s.documents[:0]
	for _, d := range s.documents {
		if d.CollectionName != name {
			kept = append(kept, d)
		} else {
			delete(s.chunks, d.ID)
		}
	}
	s.documents = kept
	writeJSON(w, http.StatusOK, map[string]string{"message": "Collection deleted successfully"})
}

func (s *Server) listDocuments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rawDocs != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, s.rawDocs)
		return
	}
	docs := append([]domain.Document{}, s.documents...)
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.documents {
		if d.ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			delete(s.chunks, id)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Document not found")
}

func (s *Server) documentChunks(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.documents {
		if d.ID == id {
			chunks := s.chunks[id]
			if chunks == nil {
				chunks = []domain.Chunk{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"filename": d.Filename, "chunks": chunks})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Document not found")
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	collection := r.Header.Get("Collection-Name")
	if collection == "" {
		writeError(w, http.StatusBadRequest, "No Collection-Name provided in header")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty file provided")
		return
	}
	s.store(w, Upload{Filename: header.Filename, Collection: collection, Body: string(data)})
}

func (s *Server) uploadText(w http.ResponseWriter, r *http.Request) {
	collection := r.Header.Get("Collection-Name")
	name := r.Header.Get("Document-Name")
	if collection == "" {
		writeError(w, http.StatusBadRequest, "No Collection-Name provided in header")
		return
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "No Document-Name provided in header")
		return
	}
	data, _ := io.ReadAll(r.Body)
	s.store(w, Upload{Filename: name, Collection: collection, Body: string(data)})
}

// store records an upload as a one-chunk document, creating the
// collection if needed like the real backend does.
func (s *Server) store(w http.ResponseWriter, up Upload) {
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	found := false
	for _, c := range s.collections {
		if c == up.Collection {
			found = true
			break
		}
	}
	if !found {
		s.collections = append(s.collections, up.Collection)
	}
	s.mu.Unlock()

	id := s.AddDocument(domain.Document{Filename: up.Filename, CollectionName: up.Collection},
		domain.Chunk{Number: 1, Start: head(up.Body, 50), End: tail(up.Body, 50), EmbeddingPreview: []float64{0, 0, 0, 0, 0}})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        "Document uploaded successfully",
		"document_id":    id,
		"chunks_created": 1,
	})
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid query body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, body)
	results := s.results
	if results == nil {
		results = []domain.QueryResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
