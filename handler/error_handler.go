package handler

import (
	"net/http"
	"school-api/common"
)

// AppHandler is a handler that reports failures as an *common.AppError instead of writing them.
type AppHandler func(http.ResponseWriter, *http.Request) *common.AppError

func ErrorHandlingMiddleware(next AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
