package mastodon

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-social-relay/core"
)

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func remoteFailure(message string, res core.TransportResponse) error {
	err := goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(core.RelayErrorNetworkFailure)
	metadata := map[string]any{}
	if res.StatusCode > 0 {
		metadata["remote_status"] = res.StatusCode
	}
	if len(res.Body) > 0 {
		metadata["remote_body"] = string(res.Body)
	}
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
