// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/tripsync/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	testHandler := func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	}

	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/polls/abc/status", nil)
	w := httptest.NewRecorder()

	wrappedHandler(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestWithLogging_KeepsIncomingRequestID(t *testing.T) {
	handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	w := httptest.NewRecorder()

	handler(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("Expected request id 'trace-42', got '%s'", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected implicit status 200, got %d", w.Code)
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"Created", http.StatusCreated, `{"pollId":"123"}`},
		{"BadRequest", http.StatusBadRequest, `{"error":"bad request"}`},
		{"NotFound", http.StatusNotFound, "not found"},
		{"BadGateway", http.StatusBadGateway, "upstream"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			})

			req := httptest.NewRequest("POST", "/polls", nil)
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w}

	rec.Write([]byte("body"))
	rec.WriteHeader(http.StatusTeapot)

	if rec.status != http.StatusOK {
		t.Errorf("Expected recorded status 200, got %d", rec.status)
	}
}

func TestJSONResponse(t *testing.T) {
	testCases := []struct {
		name       string
		statusCode int
		data       interface{}
		expected   string
	}{
		{
			name:       "simple struct",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "hello"},
			expected:   `{"message":"hello"}`,
		},
		{
			name:       "created response",
			statusCode: http.StatusCreated,
			data:       models.CreatePollResponse{PollID: "abc123", PollURL: "https://trips.example/poll/abc123", OrganizerKey: "key456", InvitationsSent: 2},
			expected:   `{"pollId":"abc123","pollUrl":"https://trips.example/poll/abc123","organizerKey":"key456","invitationsSent":2,"invitationsFailed":0}`,
		},
		{
			name:       "error response",
			statusCode: http.StatusBadRequest,
			data:       models.ErrorResponse{Error: "Bad Request", Message: "missing field"},
			expected:   `{"error":"Bad Request","message":"missing field"}`,
		},
		{
			name:       "array data",
			statusCode: http.StatusOK,
			data:       []string{"a", "b", "c"},
			expected:   `["a","b","c"]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSONResponse(w, tc.statusCode, tc.data)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			contentType := w.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
			}

			// Encode appends a newline
			body := strings.TrimSpace(w.Body.String())
			if body != tc.expected {
				t.Errorf("Expected body '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		message       string
		expectedError string
	}{
		{"bad request", http.StatusBadRequest, "every question must be answered", "Bad Request"},
		{"unauthorized", http.StatusUnauthorized, "invalid organizer key", "Unauthorized"},
		{"not found", http.StatusNotFound, "poll not found", "Not Found"},
		{"conflict", http.StatusConflict, "poll is not active", "Conflict"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			ErrorResponse(w, tc.statusCode, tc.message)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Error != tc.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectedError, resp.Error)
			}
			if resp.Message != tc.message {
				t.Errorf("Expected message '%s', got '%s'", tc.message, resp.Message)
			}
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"destination":"Lisbon","organizerEmail":"org@x.com","memberEmails":["a@x.com"]}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.Destination != "Lisbon" {
			t.Errorf("Expected destination 'Lisbon', got '%s'", parsed.Destination)
		}
		if len(parsed.MemberEmails) != 1 || parsed.MemberEmails[0] != "a@x.com" {
			t.Errorf("Expected one member email, got %v", parsed.MemberEmails)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid json}`))

		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))

		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err != ErrEmptyBody {
			t.Errorf("Expected ErrEmptyBody, got %v", err)
		}
	})

	t.Run("null body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader("null"))

		var parsed *models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if parsed != nil {
			t.Error("Expected nil result for null JSON")
		}
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		body := `{"responderEmail":"a@x.com","responses":[],"unknown_field":"ignored"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.SubmitResponseRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.ResponderEmail != "a@x.com" {
			t.Errorf("Expected responderEmail 'a@x.com', got '%s'", parsed.ResponderEmail)
		}
	})

	t.Run("body is consumed after parsing", func(t *testing.T) {
		body := `{"forceEarly":true}`
		req := httptest.NewRequest("POST", "/", io.NopCloser(bytes.NewReader([]byte(body))))

		var parsed models.GenerateItineraryRequest
		_ = ParseJSONBody(req, &parsed)

		remaining, _ := io.ReadAll(req.Body)
		if len(remaining) > 0 {
			t.Error("Expected body to be consumed")
		}
		if !parsed.ForceEarly {
			t.Error("Expected forceEarly to be decoded")
		}
	})
}

func TestCORS(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("handled"))
	})

	corsHandler := CORS(nextHandler)

	t.Run("preflight OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "" {
			t.Errorf("Expected empty body for preflight, got '%s'", w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Error("Expected Access-Control-Allow-Origin to match request origin")
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials to be 'true'")
		}
	})

	t.Run("regular request with origin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls/abc", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "https://example.com" {
			t.Error("Expected Access-Control-Allow-Origin to reflect request origin")
		}
	})

	t.Run("request without origin defaults to wildcard", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls/abc", nil)
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
	})

	t.Run("allows organizer headers", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls/abc/itinerary", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		allowedHeaders := w.Header().Get("Access-Control-Allow-Headers")
		for _, h := range []string{"Content-Type", "X-Organizer-Email", "X-Organizer-Key"} {
			if !strings.Contains(allowedHeaders, h) {
				t.Errorf("Expected %s in allowed headers", h)
			}
		}
		if w.Header().Get("Access-Control-Expose-Headers") != RequestIDHeader {
			t.Error("Expected request id header to be exposed")
		}
	})

	t.Run("allows required methods", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls", nil)
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		allowedMethods := w.Header().Get("Access-Control-Allow-Methods")
		for _, method := range []string{"GET", "POST", "OPTIONS"} {
			if !strings.Contains(allowedMethods, method) {
				t.Errorf("Expected %s in allowed methods", method)
			}
		}
	})
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expectedIP string
	}{
		{
			name:       "X-Forwarded-For single IP",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "X-Forwarded-For chained IPs",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.195, 70.41.3.18, 150.172.238.178"},
			remoteAddr: "127.0.0.1:12345",
			expectedIP: "203.0.113.195",
		},
		{
			name:       "X-Real-IP takes precedence over RemoteAddr",
			headers:    map[string]string{"X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "203.0.113.50",
		},
		{
			name:       "X-Forwarded-For takes precedence over X-Real-IP",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.100", "X-Real-IP": "203.0.113.50"},
			remoteAddr: "10.0.0.1:12345",
			expectedIP: "192.168.1.100",
		},
		{
			name:       "RemoteAddr with port",
			remoteAddr: "192.168.1.50:54321",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.50",
			expectedIP: "192.168.1.50",
		},
		{
			name:       "IPv6 RemoteAddr with port",
			remoteAddr: "[::1]:12345",
			expectedIP: "::1",
		},
		{
			name:       "IPv6 in X-Forwarded-For",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			remoteAddr: "127.0.0.1:12345",
			expectedIP: "2001:db8::1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			if result := GetClientIP(req); result != tc.expectedIP {
				t.Errorf("Expected IP '%s', got '%s'", tc.expectedIP, result)
			}
		})
	}
}
