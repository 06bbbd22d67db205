package mastodon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-social-relay/core"
)

type statusRequest struct {
	Status      string `json:"status"`
	InReplyToID string `json:"in_reply_to_id,omitempty"`
}

type statusResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Send posts text as one or more statuses under the session's access token.
// Preconditions fail before any network call; delivery is at-most-once with
// no internal retries.
func (a *Adapter) Send(ctx context.Context, req core.SendRequest) (core.DeliveryReceipt, error) {
	if a == nil || a.transport == nil {
		return core.DeliveryReceipt{}, fmt.Errorf("mastodon: adapter is not configured")
	}
	if err := req.Session.Usable(); err != nil {
		return core.DeliveryReceipt{}, core.NewSessionInvalidError(err)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return core.DeliveryReceipt{}, core.NewValidationError("text", "message text is required")
	}
	if !a.threadLong && utf8.RuneCountInString(text) > a.characterLimit {
		return core.DeliveryReceipt{}, core.NewValidationError(
			"text",
			fmt.Sprintf("message text exceeds the %d character limit", a.characterLimit),
		)
	}

	chunks := splitMessage(text, a.characterLimit)
	receipt := core.DeliveryReceipt{Parts: []string{}}
	parentID := ""
	for i, chunk := range chunks {
		statusText := chunk
		if len(chunks) > 1 {
			statusText = fmt.Sprintf("%s (%d/%d)", chunk, i+1, len(chunks))
		}
		posted, err := a.postStatus(ctx, req.Session, statusText, parentID)
		if err != nil {
			return core.DeliveryReceipt{}, err
		}
		if i == 0 {
			receipt.MessageID = posted.ID
			receipt.URL = posted.URL
		}
		receipt.Parts = append(receipt.Parts, posted.ID)
		parentID = posted.ID
	}
	receipt.PostedAt = a.now()

	a.logger.Info("message delivered",
		"adapter_id", AdapterID,
		"session_id", req.Session.ID,
		"message_id", receipt.MessageID,
		"parts", len(receipt.Parts),
	)

	return receipt, nil
}

func (a *Adapter) postStatus(ctx context.Context, session core.Session, text string, parentID string) (statusResponse, error) {
	body, err := json.Marshal(statusRequest{Status: text, InReplyToID: parentID})
	if err != nil {
		return statusResponse{}, fmt.Errorf("mastodon: encode status payload: %w", err)
	}

	res, err := a.transport.Do(ctx, core.BearerJSONPostRequest(a.endpoints.StatusURL, session, body, a.requestTimeout))
	if err != nil {
		return statusResponse{}, core.WrapNetworkError(err, "mastodon: status post request failed")
	}
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return statusResponse{}, core.NewAuthExpiredError(res.StatusCode, string(res.Body))
	}
	if !isSuccess(res.StatusCode) {
		return statusResponse{}, core.NewDeliveryError("mastodon: status post rejected", res.StatusCode, string(res.Body))
	}

	posted := statusResponse{}
	if err := json.Unmarshal(res.Body, &posted); err != nil {
		return statusResponse{}, core.NewDeliveryError("mastodon: status response is not valid json", res.StatusCode, string(res.Body))
	}
	if strings.TrimSpace(posted.ID) == "" {
		return statusResponse{}, core.NewDeliveryError("mastodon: status response is missing an id", res.StatusCode, string(res.Body))
	}
	return posted, nil
}
