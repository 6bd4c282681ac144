// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package azuredevops

import (
	"context"
	"fmt"
	"net/url"
)

// profileAPIVersion pins the profile endpoints, which remain preview
// in API 7.1.
const profileAPIVersion = "7.1-preview.3"

// GetMyProfile returns the authenticated user's account profile from
// the vssps host.
func (client *Client) GetMyProfile(ctx context.Context) (*Profile, error) {
	return client.getProfile(ctx, "me")
}

// GetProfile fetches an account profile by user ID.
func (client *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("azuredevops: getting profile: user ID is required")
	}
	return client.getProfile(ctx, userID)
}

func (client *Client) getProfile(ctx context.Context, id string) (*Profile, error) {
	query := url.Values{}
	query.Set("api-version", profileAPIVersion)
	query.Set("details", "true")

	var profile Profile
	if err := client.get(ctx, restURL(client.profileURL, query, "_apis", "profile", "profiles", id), &profile); err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", id, err)
	}
	return &profile, nil
}
