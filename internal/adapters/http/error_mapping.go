package httpadapter

import (
	"net/http"

	"github.com/open-lectern/lectern/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrPageOutOfRange):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrLectureNotFound),
		domain.IsKind(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
