// Copyright 2026 The Trackdeck Authors
// SPDX-License-Identifier: Apache-2.0

package devopstools

import (
	"slices"

	"github.com/trackdeck/trackdeck/lib/azuredevops"
	"github.com/trackdeck/trackdeck/lib/toolkit"
)

// All returns the full Azure DevOps catalog: projects and teams, work
// item tracking, Git repositories, sprints and boards, search, and
// process customization. Profile is not included; bind it separately
// when the assistant should answer "who am I" questions.
func All(client *azuredevops.Client) toolkit.Set {
	return toolkit.NewSet(slices.Concat(
		Projects(client),
		WorkItems(client),
		Git(client),
		ProcessesAndTeams(client),
		Work(client),
		Search(client),
		WorkItemTrackingProcess(client),
	)...)
}
