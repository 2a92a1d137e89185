package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cinebook/model"
)

func TestDoJSON_Non2xxReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	var out map[string]any
	err := client.doJSON(context.Background(), http.MethodGet, "/fail", "", nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("unexpected status code: %d", StatusCode(err))
	}
}

func TestDoJSON_DoesNotRetry(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	err := client.doJSON(context.Background(), http.MethodPost, "/flaky", "", map[string]string{"a": "b"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoJSON_ExtractsErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"timestamp":"now","message":"Name must not be blank"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	err := client.doJSON(context.Background(), http.MethodPost, "/x", "", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Name must not be blank" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestLogin_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req model.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Email != "ana@example.com" || req.Password != "secret1" {
			t.Fatalf("unexpected body: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Ana","email":"ana@example.com","role":"USER","token":"tok-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	res, err := client.Login(context.Background(), model.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Id != 7 || res.Role != model.RoleUser || res.Token != "tok-1" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.Login(context.Background(), model.LoginRequest{Email: "a@b.c", Password: "nope"})
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegister_SendsNullsAndUpperCaseRole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if raw["role"] != "OWNER" {
			t.Fatalf("unexpected role: %v", raw["role"])
		}
		if raw["theatreName"] != "Grand" {
			t.Fatalf("unexpected theatre name: %v", raw["theatreName"])
		}
		for _, key := range []string{"phone", "location"} {
			value, ok := raw[key]
			if !ok || value != nil {
				t.Fatalf("expected %s to be null, got %v (present=%v)", key, value, ok)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"name":"Bo","email":"bo@example.com","role":"OWNER"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	theatre := "Grand"
	res, err := client.Register(context.Background(), model.RegisterRequest{
		Name:        "Bo",
		Email:       "bo@example.com",
		Password:    "secret1",
		Role:        model.RoleOwner.Wire(),
		TheatreName: &theatre,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !res.IsOwner() {
		t.Fatalf("expected owner role, got %q", res.Role)
	}
}

func TestRegister_Conflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`"Email already exists"`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	_, err := client.Register(context.Background(), model.RegisterRequest{Email: "dup@example.com"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "Email already exists" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestUpdateUser_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/auth/user/7" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Ana Maria","email":"ana@example.com","role":"user","bio":"hi"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	user, err := client.UpdateUser(context.Background(), "tok-1", 7, model.ProfileUpdate{Name: "Ana Maria", Bio: "hi"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if user.Name != "Ana Maria" || user.Bio != "hi" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUploadProfileImage_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload/profile/7" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected image field: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "me.png" || string(data) != "png-bytes" {
			t.Fatalf("unexpected upload: %s %q", header.Filename, data)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"imageUrl":"http://cdn.test/me.png"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())

	url, err := client.UploadProfileImage(context.Background(), "tok-1", 7, "/tmp/pics/me.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if url != "http://cdn.test/me.png" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestUploadProfileImage_RequiresData(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	if _, err := client.UploadProfileImage(context.Background(), "tok", 7, "x.png", nil); err == nil {
		t.Fatal("expected error for empty image")
	}
	if _, err := client.UploadProfileImage(context.Background(), "tok", 0, "x.png", []byte("x")); err == nil {
		t.Fatal("expected error for missing user id")
	}
}
