package core

import (
	"net/http"
	"net/url"
	"time"
)

// FormPostRequest builds the url-encoded POST shape the OAuth2 registration,
// token and revocation endpoints accept.
func FormPostRequest(endpoint string, form url.Values, timeout time.Duration) TransportRequest {
	return TransportRequest{
		Method: http.MethodPost,
		URL:    endpoint,
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"Accept":       "application/json",
		},
		Body:    []byte(form.Encode()),
		Timeout: timeout,
	}
}

// BearerGetRequest builds a JSON GET authorized by the session token.
func BearerGetRequest(endpoint string, session Session, timeout time.Duration) TransportRequest {
	return TransportRequest{
		Method: http.MethodGet,
		URL:    endpoint,
		Headers: map[string]string{
			"Authorization": session.TokenType + " " + session.AccessToken,
			"Accept":        "application/json",
		},
		Timeout: timeout,
	}
}

// BearerJSONPostRequest builds a JSON POST authorized by the session token.
func BearerJSONPostRequest(endpoint string, session Session, body []byte, timeout time.Duration) TransportRequest {
	return TransportRequest{
		Method: http.MethodPost,
		URL:    endpoint,
		Headers: map[string]string{
			"Authorization": session.TokenType + " " + session.AccessToken,
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
		Body:    body,
		Timeout: timeout,
	}
}
