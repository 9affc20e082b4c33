package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/constants"
)

// Handlers exposes every endpoint as a method so routes only need the
// dependency container.
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

var errInvalidBody = errors.New(constants.MsgInvalidRequestBody)

// decodeJSON reads a JSON body into dst and runs struct validation when v is
// non-nil.
func decodeJSON(r *http.Request, v *common.Validator, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	if v == nil {
		return nil
	}
	return v.Struct(dst)
}

// pathID parses a positive numeric URL parameter.
func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, common.NewValidationError(name, constants.MsgInvalidID)
	}
	return uint(id), nil
}

// queryID parses an optional positive numeric query parameter.
func queryID(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, common.NewValidationError(name, "must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}

// queryInt returns def when the parameter is absent or not a number.
func queryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
