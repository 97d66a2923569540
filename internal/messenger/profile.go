package messenger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/config"
	apperrors "github.com/Lawrenze09/Hybrid-AI-Messenger-Bot/internal/errors"
)

// Profile is the user display data fetched from the Graph API.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FallbackDisplayName is used whenever a profile cannot be fetched; the
// pipeline must never block on personalization.
const FallbackDisplayName = "Customer"

// ProfileLookup fetches user profiles. Concurrent lookups for the same
// PSID are collapsed into a single Graph API call.
type ProfileLookup struct {
	client *Client
	group  singleflight.Group
}

// NewProfileLookup creates a profile lookup backed by the given client.
func NewProfileLookup(client *Client) *ProfileLookup {
	return &ProfileLookup{client: client}
}

// Fetch returns the user's profile. Redelivered webhooks for the same
// user arriving together produce one upstream request.
func (p *ProfileLookup) Fetch(ctx context.Context, psid string) (Profile, error) {
	v, err, _ := p.group.Do(psid, func() (any, error) {
		return p.fetch(ctx, psid)
	})
	if err != nil {
		return Profile{}, err
	}
	return v.(Profile), nil
}

func (p *ProfileLookup) fetch(ctx context.Context, psid string) (Profile, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=first_name,last_name&access_token=%s",
		p.client.baseURL, url.PathEscape(psid), url.QueryEscape(p.client.pageToken))

	ctx, cancel := context.WithTimeout(ctx, config.GraphProfile)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("building profile request: %w", err)
	}

	resp, err := p.client.httpClient.Do(req)
	if err != nil {
		p.client.metrics.RecordCollaboratorError("profile")
		return Profile{}, apperrors.NewGraphError("/profile", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.client.metrics.RecordCollaboratorError("profile")
		return Profile{}, apperrors.NewGraphError("/profile", resp.StatusCode, fmt.Errorf("profile fetch failed"))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		p.client.metrics.RecordCollaboratorError("profile")
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}

	return profile, nil
}

// DisplayName returns the first name, or the generic fallback when the
// profile is empty.
func (p Profile) DisplayName() string {
	if p.FirstName == "" {
		return FallbackDisplayName
	}
	return p.FirstName
}
