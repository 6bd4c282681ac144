// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

// Package devopstools binds the Azure DevOps client to the agent tool
// runtime.
//
// Each toolset function (Projects, WorkItems, Git, ...) returns the
// tools for one Azure DevOps concern. All assembles every toolset
// except Profile, which is available separately for assistants that
// should see account profiles.
//
// Unlike the JIRA catalog, tool results are indented JSON. Work items
// are open-schema records (fields keyed by reference name, varying by
// process template), so there is no fixed prose shape to render them
// into; JSON keeps custom fields visible to the model. Mutations that
// return nothing meaningful answer with a short confirmation sentence
// instead. API failures are returned as tool errors so the model can
// read the provider's diagnostics and adjust.
package devopstools
