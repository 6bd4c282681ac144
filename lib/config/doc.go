// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads service settings from the environment.
//
// The environment variable names are the public deployment contract:
// MODE, HOST, PORT, AUTH_SECRET, the provider API keys, DEFAULT_MODEL,
// the DATABASE_TYPE and POSTGRES_* checkpoint settings, and the JIRA_*
// and AZURE_DEVOPS_* platform credentials. A .env file in the working
// directory is read first and fills in variables the process
// environment does not already provide; real environment variables
// always win, and a missing .env is not an error.
//
// [Load] parses and validates in one step. Validation reports every
// problem in a single joined error, so a misconfigured deployment is
// fixed in one pass rather than one restart per missing variable.
//
// Key exports:
//
//   - [Settings] -- the parsed environment contract
//   - [Load] -- the single entry point: .env, parse, validate
//
// This package depends on lib/llm for the model catalog and nothing
// else in this module.
package config
