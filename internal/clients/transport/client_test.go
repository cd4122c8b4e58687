package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendGetRequest_ReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient()
	body, err := client.SendGetRequest(context.Background(), srv.URL+"/v1/terms/canonical")
	if err != nil {
		t.Fatalf("SendGetRequest returned error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s, want {\"ok\":true}", body)
	}
}

func TestSendGetRequest_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(WithToken("secret-token"))
	if _, err := client.SendGetRequest(context.Background(), srv.URL); err != nil {
		t.Fatalf("SendGetRequest returned error: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
}

func TestSendGetRequest_NoTokenNoAuthHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient()
	if _, err := client.SendGetRequest(context.Background(), srv.URL); err != nil {
		t.Fatalf("SendGetRequest returned error: %v", err)
	}
	if hasAuth {
		t.Error("Authorization header sent without a token configured")
	}
}

func TestSendPostRequest_SendsJSONBody(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"created":true}`))
	}))
	defer srv.Close()

	client := NewClient()
	body, err := client.SendPostRequest(context.Background(), srv.URL+"/v1/agreement", []byte(`{"termname":"canonical"}`))
	if err != nil {
		t.Fatalf("SendPostRequest returned error: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody != `{"termname":"canonical"}` {
		t.Errorf("request body = %s", gotBody)
	}
	if string(body) != `{"created":true}` {
		t.Errorf("response body = %s", body)
	}
}

func TestSend_NonOKStatusReturnsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"Message": "term not found"}`))
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.SendGetRequest(context.Background(), srv.URL+"/v1/terms/missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", reqErr.StatusCode)
	}
	if string(reqErr.Body) != `{"Message": "term not found"}` {
		t.Errorf("Body = %s, want error payload preserved", reqErr.Body)
	}
}

func TestSend_CreatedStatusIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient()
	if _, err := client.SendPostRequest(context.Background(), srv.URL, []byte(`{}`)); err != nil {
		t.Fatalf("SendPostRequest returned error for 201: %v", err)
	}
}

func TestSend_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	if _, err := client.SendGetRequest(ctx, srv.URL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
