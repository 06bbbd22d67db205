package core

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

func TestFormPostRequest_EncodesFormAndHeaders(t *testing.T) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")

	req := FormPostRequest("https://mastodon.test/oauth/token", form, 5*time.Second)
	if req.Method != http.MethodPost {
		t.Fatalf("expected POST, got %q", req.Method)
	}
	if req.Headers["Content-Type"] != "application/x-www-form-urlencoded" {
		t.Fatalf("expected form content type, got %q", req.Headers["Content-Type"])
	}
	if string(req.Body) != "grant_type=authorization_code" {
		t.Fatalf("expected encoded form body, got %q", req.Body)
	}
	if req.Timeout != 5*time.Second {
		t.Fatalf("expected timeout carried, got %v", req.Timeout)
	}
}

func TestBearerRequests_CarrySessionAuthorization(t *testing.T) {
	session := Session{TokenType: "Bearer", AccessToken: "token-1"}

	get := BearerGetRequest("https://mastodon.test/oauth/userinfo", session, time.Second)
	if get.Method != http.MethodGet {
		t.Fatalf("expected GET, got %q", get.Method)
	}
	if get.Headers["Authorization"] != "Bearer token-1" {
		t.Fatalf("expected bearer header, got %q", get.Headers["Authorization"])
	}

	post := BearerJSONPostRequest("https://mastodon.test/api/v1/statuses", session, []byte(`{"status":"hi"}`), time.Second)
	if post.Method != http.MethodPost {
		t.Fatalf("expected POST, got %q", post.Method)
	}
	if post.Headers["Authorization"] != "Bearer token-1" {
		t.Fatalf("expected bearer header, got %q", post.Headers["Authorization"])
	}
	if post.Headers["Content-Type"] != "application/json" {
		t.Fatalf("expected json content type, got %q", post.Headers["Content-Type"])
	}
	if string(post.Body) != `{"status":"hi"}` {
		t.Fatalf("expected body carried, got %q", post.Body)
	}
}
