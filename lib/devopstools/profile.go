// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"context"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// Profile returns the user profile tools. Profile reads go to the
// platform-wide profile service, so these are kept out of All.
func Profile(client *azuredevops.Client) []toolkit.Tool {
	return []toolkit.Tool{
		getMyProfileTool(client),
		getProfileTool(client),
	}
}

func formatProfile(profile *azuredevops.Profile) map[string]any {
	return map[string]any{
		"id":            profile.ID,
		"display_name":  profile.DisplayName,
		"email_address": profile.EmailAddress,
		"core_revision": profile.CoreRevision,
	}
}

type getMyProfileInput struct{}

func getMyProfileTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_my_profile",
		"Get the profile of the authenticated user.",
		func(ctx context.Context, input getMyProfileInput) (string, error) {
			profile, err := client.GetMyProfile(ctx)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProfile(profile))
		})
}

type getProfileInput struct {
	UserID string `json:"user_id" jsonschema_description:"The profile ID of the user"`
}

func getProfileTool(client *azuredevops.Client) toolkit.Tool {
	return toolkit.New("get_profile",
		"Get the profile of a user by ID.",
		func(ctx context.Context, input getProfileInput) (string, error) {
			profile, err := client.GetProfile(ctx, input.UserID)
			if err != nil {
				return "", err
			}
			return formatJSON(formatProfile(profile))
		})
}
