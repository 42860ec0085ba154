package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/nikhil/teamhub/internal/apperrors"
	"github.com/nikhil/teamhub/internal/logger"
	"github.com/nikhil/teamhub/internal/response"
	"github.com/nikhil/teamhub/internal/validation"
)

const maxBodyBytes = 1 << 20

// Responder is embedded by every handler for envelope and error writing.
type Responder struct {
	Log        *logger.Logger
	Production bool
}

func (rs Responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.FromError(w, r, rs.Log, err, rs.Production)
}

// decode reads a JSON body into dst and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Validation("Invalid request body")
	}
	return validation.Struct(dst)
}

// decodeFields is decode for partial updates. It also returns every top-level
// key of the body, including ones dst has no field for.
func decodeFields(w http.ResponseWriter, r *http.Request, dst any) ([]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}
	if len(raw) == 0 {
		return []string{}, validation.Struct(dst)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, validation.Struct(dst)
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
