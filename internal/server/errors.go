package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/talent-search/internal/search"
)

// StatusClientClosedRequest is logged when the caller goes away mid-search.
const StatusClientClosedRequest = 499

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var verr *search.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

// searchError writes err as a JSON error body. Validation failures echo their
// message; anything else is logged and answered with a generic message.
func (s *Server) searchError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	switch status {
	case http.StatusBadRequest:
		s.errorResponse(w, status, err.Error())
	case StatusClientClosedRequest:
		log.Printf("[server] %s %s: client closed request", r.Method, r.URL.Path)
	default:
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
		s.errorResponse(w, http.StatusInternalServerError, "Search failed")
	}
}
