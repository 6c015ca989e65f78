package usecase

import (
	"fmt"
	"strings"
)

const (
	reportHeader        = "## Auto Sync Report (v1)"
	reportNoChanges     = "No changes detected, no sync needed."
	reportDateLayout    = "2006-01-02 15:04"
	reportFailedPreview = 10
)

// SyncReport is the ephemeral outcome of one cycle. Skipped marks a
// cycle that exited on the auto-sync toggle before doing anything.
type SyncReport struct {
	Created []ExternalMatch
	Failed  []ExternalMatch
	Updated int
	Skipped bool
}

func (r SyncReport) Empty() bool {
	return len(r.Created) == 0 && len(r.Failed) == 0 && r.Updated == 0
}

// Render produces the versioned plain-text summary handed to the
// notifier. Deterministic for a given report.
func (r SyncReport) Render() string {
	var b strings.Builder
	b.WriteString(reportHeader)
	b.WriteString("\n")

	if r.Empty() {
		b.WriteString(reportNoChanges)
		return b.String()
	}

	if len(r.Created) > 0 || len(r.Failed) > 0 {
		b.WriteString("### New Matches\n")
		fmt.Fprintf(&b, "Successful syncs: %d\n", len(r.Created))
		if len(r.Failed) > 0 {
			fmt.Fprintf(&b, "Failed syncs: %d:\n", len(r.Failed))
			for i, m := range r.Failed {
				if i == reportFailedPreview {
					fmt.Fprintf(&b, "...and %d more\n", len(r.Failed)-reportFailedPreview)
					break
				}
				fmt.Fprintf(&b, "- %s vs %s on %s\n",
					m.HomeTeamName, m.AwayTeamName, m.StartsAt.Format(reportDateLayout))
			}
		}
	}

	if r.Updated > 0 {
		fmt.Fprintf(&b, "### Updated Matches: %d\n", r.Updated)
	}

	return strings.TrimRight(b.String(), "\n")
}
