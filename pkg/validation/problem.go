package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotValidationProblem is returned by DecodeProblem when the body parses
// but carries no failures.
var ErrNotValidationProblem = errors.New("validation: body is not a validation problem")

type problemBody struct {
	Type          string          `json:"type"`
	Title         string          `json:"title"`
	Status        int             `json:"status"`
	Detail        string          `json:"detail"`
	Errors        json.RawMessage `json:"errors"`
	InvalidParams []invalidParam  `json:"invalid-params"`
}

type invalidParam struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// DecodeProblem parses a validation problem body. Three shapes are accepted:
//
//	{"errors": [{"code": "SlugNotUnique", "path": "title", "message": "..."}]}
//	{"errors": {"title": ["Title is required"]}}
//	{"invalid-params": [{"name": "title", "reason": "..."}]}
//
// Bag and invalid-params entries without a code are assigned CodeInvalid. Bag
// keys keep the order the service wrote them in.
func DecodeProblem(data []byte) (*Error, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNotValidationProblem
	}

	var body problemBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("validation: decode problem: %w", err)
	}

	failures, err := decodeErrorsField(body.Errors)
	if err != nil {
		return nil, err
	}
	for _, param := range body.InvalidParams {
		code := strings.TrimSpace(param.Code)
		if code == "" {
			code = CodeInvalid
		}
		failures = append(failures, Failure{
			Code:    code,
			Path:    ParsePath(param.Name),
			Message: param.Reason,
		})
	}

	if len(failures) == 0 {
		return nil, ErrNotValidationProblem
	}

	status := body.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &Error{
		Status:   status,
		Title:    strings.TrimSpace(body.Title),
		Failures: failures,
	}, nil
}

func decodeErrorsField(raw json.RawMessage) ([]Failure, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var failures []Failure
		if err := json.Unmarshal(trimmed, &failures); err != nil {
			return nil, fmt.Errorf("validation: decode errors list: %w", err)
		}
		return failures, nil
	case '{':
		return decodeErrorBag(trimmed)
	default:
		return nil, fmt.Errorf("validation: unsupported errors member %q", string(trimmed[:1]))
	}
}

func decodeErrorBag(data []byte) ([]Failure, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("validation: decode errors bag: %w", err)
	}

	var failures []Failure
	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("validation: decode errors bag: %w", err)
		}
		key, _ := token.(string)

		var messages []string
		if err := dec.Decode(&messages); err != nil {
			return nil, fmt.Errorf("validation: decode errors bag %q: %w", key, err)
		}
		path := ParsePath(key)
		for _, message := range messages {
			if strings.TrimSpace(message) == "" {
				continue
			}
			failures = append(failures, Failure{
				Code:    CodeInvalid,
				Path:    path,
				Message: message,
			})
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("validation: decode errors bag: %w", err)
	}
	return failures, nil
}
