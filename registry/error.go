package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// StatusError is returned when the registry answers with a non-2xx status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: got status: %s", e.URL, e.Status)
}

// ParseError is returned when a response body does not match the expected
// shape, including unparseable digests and timestamps.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing response: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type errorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Check API error
// https://github.com/opencontainers/distribution-spec/blob/main/spec.md#error-codes
func apiError(data []byte) error {
	if !bytes.HasPrefix(data, []byte(`{"errors"`)) {
		return nil
	}
	var apiErr errorResponse
	if err := json.Unmarshal(data, &apiErr); err != nil || len(apiErr.Errors) == 0 {
		return err
	}
	str := apiErr.Errors[0].Code
	if apiErr.Errors[0].Message != "" {
		str += ": " + apiErr.Errors[0].Message
	}
	return errors.New(str)
}
