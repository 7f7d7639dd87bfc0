// ABOUTME: Tests for the contact manager API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// staticToken is a TokenSource returning a fixed value
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestAuthenticate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/authenticate" {
			t.Errorf("expected path /api/v1/auth/authenticate, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header on auth endpoint, got %s", got)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if body["email"] != "a@x.com" || body["password"] != "pw" {
			t.Errorf("unexpected credentials: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	token, err := c.Authenticate(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected token tok-123, got %s", token)
	}
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	_, err := c.Authenticate(context.Background(), "a@x.com", "wrong")
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestRegister_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/register" {
			t.Errorf("expected path /api/v1/auth/register, got %s", r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if body["firstname"] != "Ada" || body["lastname"] != "Lovelace" {
			t.Errorf("unexpected names: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-new"})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	token, err := c.Register(context.Background(), "Ada", "Lovelace", "ada@x.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-new" {
		t.Errorf("expected token tok-new, got %s", token)
	}
}

func TestListContacts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/contacts" {
			t.Errorf("expected path /api/v1/contacts, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("size") != "10" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Page{
			Content:       []Contact{{ID: "c1", Name: "Bob"}},
			TotalElements: 21,
			Number:        2,
			Size:          10,
		})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	page, err := c.ListContacts(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Name != "Bob" {
		t.Errorf("unexpected content: %+v", page.Content)
	}
	if page.TotalElements != 21 {
		t.Errorf("expected totalElements 21, got %d", page.TotalElements)
	}
}

func TestListContacts_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("stale"))
	_, err := c.ListContacts(context.Background(), 0, 10)
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}

	var apiErr *APIError
	if !asAPIError(err, &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401 preserved, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "token expired" {
		t.Errorf("expected server message preserved, got %q", apiErr.Message)
	}
}

func TestGetContact_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "contact not found"})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	_, err := c.GetContact(context.Background(), "nope")
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreateContact_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var contact Contact
		if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		contact.ID = "c-new"

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(contact)
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	created, err := c.CreateContact(context.Background(), &Contact{Name: "Bob", Status: StatusActive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "c-new" {
		t.Errorf("expected server-assigned id, got %q", created.ID)
	}
	if created.Name != "Bob" {
		t.Errorf("expected name Bob, got %s", created.Name)
	}
}

func TestCreateContact_ValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Message: "validation failed",
			Errors:  map[string]string{"name": "must not be blank"},
		})
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	_, err := c.CreateContact(context.Background(), &Contact{})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var apiErr *APIError
	if !asAPIError(err, &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.Fields["name"] != "must not be blank" {
		t.Errorf("expected field errors preserved, got %v", apiErr.Fields)
	}
}

func TestUpdateContact_SendsFullRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/contacts/c1" {
			t.Errorf("expected path /api/v1/contacts/c1, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}

		var contact Contact
		if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if contact.Phone != "555-0100" || contact.Address != "1 Main St" {
			t.Errorf("expected full record in body, got %+v", contact)
		}

		// Server normalizes the status field
		contact.Status = StatusActive
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(contact)
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	updated, err := c.UpdateContact(context.Background(), &Contact{
		ID: "c1", Name: "Bob", Phone: "555-0100", Address: "1 Main St", Status: "active",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusActive {
		t.Errorf("expected server-normalized status, got %s", updated.Status)
	}
}

func TestUpdatePhoto_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/contacts/photo" {
			t.Errorf("expected path /api/v1/contacts/photo, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		if got := r.FormValue("id"); got != "c1" {
			t.Errorf("expected id field c1, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "avatar.png" {
			t.Errorf("expected filename avatar.png, got %s", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake-png-bytes" {
			t.Errorf("unexpected file contents: %q", data)
		}

		io.WriteString(w, "http://server/photos/c1.png")
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	url, err := c.UpdatePhoto(context.Background(), "c1", "/tmp/avatar.png", strings.NewReader("fake-png-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://server/photos/c1.png" {
		t.Errorf("expected photo URL, got %q", url)
	}
}

func TestDeleteContact_Success(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	if err := c.DeleteContact(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", gotMethod)
	}
	if gotPath != "/api/v1/contacts/c1" {
		t.Errorf("expected path /api/v1/contacts/c1, got %s", gotPath)
	}
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "boom")
	}))
	defer server.Close()

	c := New(server.URL, staticToken("tok-123"))
	_, err := c.ListContacts(context.Background(), 0, 10)

	var apiErr *APIError
	if !asAPIError(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Kind != KindServer {
		t.Errorf("expected server kind, got %s", apiErr.Kind)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500 preserved, got %d", apiErr.StatusCode)
	}
}

func TestNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", nil, WithTimeout(500*time.Millisecond))
	_, err := c.ListContacts(context.Background(), 0, 10)
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(Page{})
	}))
	defer server.Close()

	c := New(server.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.ListContacts(ctx, 0, 10)
	if !IsNetwork(err) {
		t.Errorf("expected network error for canceled context, got %v", err)
	}
}

func TestNoTokenNoAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header without a session, got %q", got)
		}
		json.NewEncoder(w).Encode(Page{})
	}))
	defer server.Close()

	c := New(server.URL, staticToken(""))
	if _, err := c.ListContacts(context.Background(), 0, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
