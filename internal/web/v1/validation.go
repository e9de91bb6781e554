package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/form-service/internal/core/domain"
)

// formRequest is the wire shape of a create or update body. Fields stay raw
// so scalar values of any JSON type can be coerced to strings.
type formRequest struct {
	Username    json.RawMessage `json:"username"`
	Email       json.RawMessage `json:"email"`
	Description json.RawMessage `json:"description"`
	Phone       json.RawMessage `json:"phone"`
	City        json.RawMessage `json:"city"`
}

// bindFormInput decodes the JSON body. An empty body decodes to an empty
// input so that it is reported as missing fields, not as a malformed body.
func bindFormInput(c *gin.Context) (domain.FormInput, error) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return domain.FormInput{}, err
	}

	var in domain.FormInput
	for _, f := range []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"username", req.Username, &in.Username},
		{"email", req.Email, &in.Email},
		{"description", req.Description, &in.Description},
		{"phone", req.Phone, &in.Phone},
		{"city", req.City, &in.City},
	} {
		v, err := fieldValue(f.raw)
		if err != nil {
			return domain.FormInput{}, fmt.Errorf("field %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return in, nil
}

var errNotScalar = errors.New("expected a string, number or boolean")

// fieldValue converts a raw JSON scalar to its stored string form.
// null, false and zero yield "" and are then reported as missing.
func fieldValue(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case 't':
		return "true", nil
	case 'f':
		return "", nil
	case '{', '[':
		return "", errNotScalar
	}

	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return strconv.FormatFloat(n, 'f', -1, 64), nil
}

// errorDetail is the "error" value of a 500 response. Raw store errors can
// carry hosts and credentials, so they are only exposed in development.
func (h *FormHandler) errorDetail(err error) string {
	if h.exposeErrors {
		return err.Error()
	}
	return "internal error"
}
