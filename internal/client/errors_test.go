// ABOUTME: Tests for API error classification
// ABOUTME: Verifies status-to-kind mapping and predicate helpers

package client

import (
	"errors"
	"fmt"
	"testing"
)

// asAPIError unwraps err into an *APIError, shared with client_test.go
func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindUnauthorized},
		{403, KindUnauthorized},
		{404, KindNotFound},
		{400, KindValidation},
		{409, KindValidation},
		{422, KindValidation},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
	}

	for _, tt := range tests {
		if got := classify(tt.status); got != tt.want {
			t.Errorf("classify(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Kind: KindValidation, StatusCode: 400, Message: "name required"}
	if err.Error() != "validation: name required" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	noMsg := &APIError{Kind: KindServer, StatusCode: 502}
	if noMsg.Error() != "server: backend returned status 502" {
		t.Errorf("unexpected message: %s", noMsg.Error())
	}
}

func TestPredicatesMatchOnlyTheirKind(t *testing.T) {
	unauthorized := &APIError{Kind: KindUnauthorized, StatusCode: 401}
	if !IsUnauthorized(unauthorized) {
		t.Error("expected IsUnauthorized true")
	}
	if IsNotFound(unauthorized) || IsValidation(unauthorized) || IsNetwork(unauthorized) {
		t.Error("expected other predicates false")
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading page: %w", &APIError{Kind: KindUnauthorized, StatusCode: 403})
	if !IsUnauthorized(wrapped) {
		t.Error("expected IsUnauthorized to see through wrapping")
	}
}

func TestPredicatesOnPlainErrors(t *testing.T) {
	if IsUnauthorized(errors.New("plain")) {
		t.Error("expected false for non-API errors")
	}
	if IsNetwork(nil) {
		t.Error("expected false for nil")
	}
}
