// Package api provides HTTP handlers for the survey orchestrator.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/burnoutlab/orchestrator/config"
	"github.com/burnoutlab/orchestrator/domain"
	"github.com/burnoutlab/orchestrator/policy"
	"github.com/burnoutlab/orchestrator/service"
	"github.com/burnoutlab/orchestrator/store"
)

// Handler handles HTTP requests.
type Handler struct {
	svc    *service.Service
	store  store.Store
	policy *policy.Engine
	config *config.Config
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, store store.Store, policyEngine *policy.Engine, cfg *config.Config) *Handler {
	return &Handler{
		svc:    svc,
		store:  store,
		policy: policyEngine,
		config: cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/query", h.Query, h.requireAPIKey)
	e.POST("/query-streaming", h.QueryStreaming, h.requireAPIKey)
	e.GET("/health", h.Health)
}

// ErrorResponse is the error body for failed requests.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError carries the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// requireAPIKey rejects requests without the configured X-API-Key header.
// Disabled when no key is configured.
func (h *Handler) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.config.APIKey == "" {
			return next(c)
		}
		if c.Request().Header.Get("X-API-Key") != h.config.APIKey {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: &APIError{
					Message: "invalid API key",
					Type:    "authentication_error",
				},
			})
		}
		return next(c)
	}
}

// Query handles a single-shot survey turn.
// POST /query
func (h *Handler) Query(c echo.Context) error {
	ctx := c.Request().Context()

	req, errResp := h.admitRequest(c)
	if errResp != nil {
		return errResp
	}

	resp, err := h.svc.Execute(ctx, *req)
	if err != nil {
		log.Printf("ERROR: turn failed: %v", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: &APIError{
				Message: err.Error(),
				Type:    "upstream_error",
			},
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// QueryStreaming handles a streaming survey turn over SSE.
// POST /query-streaming
func (h *Handler) QueryStreaming(c echo.Context) error {
	ctx := c.Request().Context()

	req, errResp := h.admitRequest(c)
	if errResp != nil {
		return errResp
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	err := h.svc.ExecuteStream(ctx, *req, func(fragment domain.StreamFragment) error {
		return writeFragment(res, fragment)
	})
	if err != nil {
		log.Printf("ERROR: streaming turn failed: %v", err)
		// The stream is already open; surface the failure as a terminal
		// error fragment.
		_ = writeFragment(res, domain.StreamFragment{
			ContentChunk: fmt.Sprintf("Error: %v", err),
			IsFinalChunk: true,
			Error:        true,
		})
	}
	return nil
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	active, err := h.store.ActiveSessionCount(c.Request().Context())
	if err != nil {
		log.Printf("WARN: failed to count active sessions: %v", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":          "healthy",
		"service":         "survey-orchestrator",
		"time":            time.Now().Format(time.RFC3339),
		"active_sessions": active,
	})
}

// admitRequest binds the turn request, applies defaults, and evaluates the
// admission policy. A non-nil second return value is the error response to
// send.
func (h *Handler) admitRequest(c echo.Context) (*domain.QueryRequest, error) {
	var req domain.QueryRequest
	if err := c.Bind(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: &APIError{
				Message: "invalid request body",
				Type:    "invalid_request_error",
			},
		})
	}

	if req.MaxQuestions <= 0 {
		req.MaxQuestions = h.config.DefaultMaxQuestions
	}
	if req.MaxHistory <= 0 {
		req.MaxHistory = h.config.DefaultMaxHistory
	}

	decision, err := h.policy.Evaluate(c.Request().Context(), policy.Input{
		UserInput:    req.UserInput,
		MaxQuestions: req.MaxQuestions,
		MaxHistory:   req.MaxHistory,
	})
	if err != nil {
		log.Printf("ERROR: policy evaluation failed: %v", err)
		return nil, c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: &APIError{
				Message: "policy evaluation failed",
				Type:    "internal_error",
			},
		})
	}
	if decision != policy.DecisionAllow {
		return nil, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: &APIError{
				Message: "request blocked by admission policy",
				Type:    "invalid_request_error",
			},
		})
	}

	return &req, nil
}

// writeFragment writes one SSE data event and flushes it to the client.
func writeFragment(res *echo.Response, fragment domain.StreamFragment) error {
	data, err := json.Marshal(fragment)
	if err != nil {
		return fmt.Errorf("failed to marshal fragment: %w", err)
	}
	if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
