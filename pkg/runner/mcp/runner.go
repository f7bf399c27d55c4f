package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

const shutdownTimeout = 5 * time.Second

// Runner coordinates MCP server startup.
type Runner struct {
	Catalogs       Catalogs
	DefaultCatalog string
	Name           string
	Version        string
	Logger         *zap.Logger

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

// Do builds the server and serves it until ctx ends (http) or stdin closes
// (stdio).
func (r Runner) Do(ctx context.Context) error {
	if r.Catalogs == nil {
		return errors.New("mcp runner requires catalogs")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := r.server()
	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, logger)
	case TransportStdio:
		logger.Info("serving MCP over stdio", zap.Strings("catalogs", r.Catalogs.Catalogs()))
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) server() *server.MCPServer {
	name, version := r.Name, r.Version
	if name == "" {
		name = "navtree"
	}
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Browse and edit navigation catalogs: list children, search, create, move, rename and delete nodes, run node actions."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	svc := NewService(r.Catalogs, r.DefaultCatalog)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) endpoint() string {
	path := strings.TrimSpace(r.HTTPEndpointPath)
	if path == "" {
		return "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, logger *zap.Logger) error {
	useTLS := r.HTTPServerCert != "" || r.HTTPServerKey != ""
	if useTLS && (r.HTTPServerCert == "" || r.HTTPServerKey == "") {
		return errors.New("both http tls cert and key must be provided")
	}

	path := r.endpoint()
	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	addr := r.HTTPListenAddr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	logger.Info("serving MCP over http", zap.Stringer("addr", ln.Addr()), zap.String("path", path), zap.Bool("tls", useTLS))
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	stop := context.AfterFunc(ctx, func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(sctx)
	})
	defer stop()

	if useTLS {
		err = httpSrv.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
