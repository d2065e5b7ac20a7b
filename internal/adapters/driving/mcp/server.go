package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for ragdesk.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "ragdesk",
		Version: Version,
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(impl, &mcp.ServerOptions{
		Instructions:       instructions(ports),
		InitializedHandler: s.onInitialized,
	})

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client which tools and resources the ports back.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("ragdesk searches document collections held by a retrieval backend. ")
	b.WriteString("Call query with a question and, optionally, the collection names to search; ")
	b.WriteString("results are chunks ordered by distance, closest first.")
	if ports.Collection != nil {
		b.WriteString(" Call list_collections to discover collection names before scoping a query.")
	}
	if ports.Document != nil {
		b.WriteString(" Call list_documents to find documents and read " + documentChunksTemplate + " to see how one was chunked.")
	}
	return b.String()
}

func (s *Server) onInitialized(_ context.Context, req *mcp.InitializedRequest) {
	if req == nil || req.Session == nil {
		return
	}
	if p := req.Session.InitializeParams(); p != nil && p.ClientInfo != nil {
		logger.Debug("mcp: client %s %s connected", p.ClientInfo.Name, p.ClientInfo.Version)
	}
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("mcp: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Handler returns the streamable HTTP handler used by RunHTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		logger.Debug("mcp: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		return s.server
	}, nil)
}
