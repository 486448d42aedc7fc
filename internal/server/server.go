package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/pixel-primitives/internal/config"
	"github.com/ironsheep/pixel-primitives/internal/imaging"
	"github.com/ironsheep/pixel-primitives/internal/logger"
)

const component = "server"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	cfg     *config.Config
	log     logger.Logger
	version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with default settings and no logging.
func New() *Server {
	return NewWithConfig(config.Default(), nil)
}

// NewWithConfig creates a server with its own image cache.
//
// Parameters:
//   - cfg: Tool defaults such as the binary level, label capacity and Hu
//     threshold. A nil cfg means config.Default.
//   - log: Diagnostics sink. A nil log discards output.
//
// Returns:
//   - *Server: A server ready for Run or Serve.
func NewWithConfig(cfg *config.Config, log logger.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		cache:   imaging.NewImageCache(),
		cfg:     cfg,
		log:     log,
		version: "0.1.0",
	}
}

// SetVersion sets the version reported by initialize.
func (s *Server) SetVersion(v string) {
	s.version = v
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to
// w until r is exhausted.
//
// Parameters:
//   - r: Source of newline-delimited JSON-RPC 2.0 requests. Blank lines are
//     skipped. A line may be at most 1 MiB.
//   - w: Destination for one JSON response per request. Notifications get
//     no response.
//
// Returns:
//   - error: Non-nil only if reading r fails. Malformed requests are answered
//     with a -32700 parse error and tool failures with a -32000 tool error;
//     neither stops the loop.
//
// # Errors
//
//   - Returns a wrapped scanner error if r fails or a line exceeds 1 MiB
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Error(component, fmt.Errorf("failed to parse request: %w", err), nil)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				s.log.Error(component, fmt.Errorf("failed to encode response: %w", err), nil)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error(component, fmt.Errorf("failed to encode response: %w", err), map[string]interface{}{
					"method": req.Method,
				})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug(component, "request", map[string]interface{}{
		"method": req.Method,
		"id":     req.ID,
	})

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "pixel-primitives",
				"version": s.version,
			},
		},
	}
}
