// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/trackdeck/trackdeck/lib/agentclient"
)

// defaultServiceURL is used when neither --url nor TRACKDECK_URL is set.
const defaultServiceURL = "http://localhost:8080"

// ServiceConnection carries the flags shared by every command that
// talks to the agent service. Flag defaults come from the environment
// (TRACKDECK_URL, AUTH_SECRET) so scripted use doesn't repeat them on
// every invocation.
type ServiceConnection struct {
	URL        string
	AuthSecret string
}

// AddFlags registers the shared connection flags on a command's flag set.
func (connection *ServiceConnection) AddFlags(flagSet *pflag.FlagSet) {
	urlDefault := os.Getenv("TRACKDECK_URL")
	if urlDefault == "" {
		urlDefault = defaultServiceURL
	}
	flagSet.StringVar(&connection.URL, "url", urlDefault, "base URL of the agent service")
	flagSet.StringVar(&connection.AuthSecret, "auth-secret", os.Getenv("AUTH_SECRET"), "bearer token for the agent service")
}

// Client builds an agent service client from the connection flags.
func (connection *ServiceConnection) Client() (*agentclient.Client, error) {
	return agentclient.New(agentclient.Config{
		BaseURL:    connection.URL,
		AuthSecret: connection.AuthSecret,
	})
}
