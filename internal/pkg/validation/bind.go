package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DecodeError wraps a body that could not be decoded into the target.
type DecodeError struct{ Err error }

func (e *DecodeError) Error() string { return "decode body: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// BindJSON decodes the request body into obj and validates it. Top-level keys
// listed in ignore are dropped before decoding. Read errors pass through as is.
func BindJSON(c *gin.Context, obj any, ignore ...string) error {
	if c.Request == nil || c.Request.Body == nil {
		return io.EOF
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return io.EOF
	}

	if len(ignore) > 0 {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return decodeError(err)
		}
		for _, key := range ignore {
			delete(fields, key)
		}
		if raw, err = json.Marshal(fields); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return decodeError(err)
	}
	return binding.Validator.ValidateStruct(obj)
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return err
	}
	return &DecodeError{Err: err}
}
