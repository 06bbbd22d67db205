package devkit

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-social-relay/core"
)

// JSONResponse builds a transport response with a JSON body. The payload is
// marshaled eagerly so fixture mistakes fail the test that builds them.
func JSONResponse(statusCode int, payload any) core.TransportResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("devkit: marshal fixture payload: %v", err))
	}
	return core.TransportResponse{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func RegistrationResponse(clientID string, clientSecret string, redirectURI string) core.TransportResponse {
	return JSONResponse(200, map[string]any{
		"id":            "1234",
		"client_id":     clientID,
		"client_secret": clientSecret,
		"redirect_uri":  redirectURI,
		"name":          "relay-fixture",
	})
}

func TokenResponse(accessToken string, scope string) core.TransportResponse {
	return JSONResponse(200, map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"scope":        scope,
		"created_at":   1735689600,
	})
}

func TokenErrorResponse(statusCode int, errorCode string, description string) core.TransportResponse {
	return JSONResponse(statusCode, map[string]any{
		"error":             errorCode,
		"error_description": description,
	})
}

func UserInfoResponse(preferredUsername string, displayName string) core.TransportResponse {
	return JSONResponse(200, map[string]any{
		"sub":                "https://mastodon.test/users/" + preferredUsername,
		"preferred_username": preferredUsername,
		"name":               displayName,
	})
}

func StatusResponse(statusID string, url string) core.TransportResponse {
	return JSONResponse(200, map[string]any{
		"id":  statusID,
		"url": url,
	})
}

func RevokeResponse() core.TransportResponse {
	return JSONResponse(200, map[string]any{})
}
