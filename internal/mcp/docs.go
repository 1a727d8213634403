package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `fleetmaint consolidates weekly preventive maintenance schedules for a mining fleet and reconciles them against maintenance cards and equipment releases.

Core concepts:
- Week: one imported weekly schedule (week number + year). Entries are equipment TAGs programmed for a day, each with work orders (OTs).
- Card: the live record of an equipment under maintenance. At most one active PREVENTIVE card per equipment.
- Release: a TOTAL or PARTIAL record of what was done when the equipment left maintenance.
- Entry status is derived from the entry, its active card and its releases: PENDING, IN_PROGRESS, PARTIAL or DONE.

Default workflow:
1) Import: stage_import with one base64 file per fleet. A clean import is committed right away.
   - Imports with TAG conflicts or failed files are held as a pending import. Pick a TAG per conflict group and pass them as resolution to commit_import.
   - discard_import throws a staged import away.
2) Board: week_board shows every entry with its derived status. entry_detail explains one entry.
3) Act: promote_entry opens a card, record_release closes it out, reopen_entry picks up pending work orders.
4) Repair: restart_entry (confirm=true) and rename_tag report per-step results. If a step failed, call the same tool again.

Docs:
- fleetmaint://docs/index
- fleetmaint://docs/statuses
- fleetmaint://docs/import
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "fleetmaint://docs/index",
		Name:        "docs_index",
		Title:       "fleetmaint docs index",
		Description: "Entry point: what each doc covers.",
		Content: `# fleetmaint docs

- fleetmaint://docs/statuses: how entry and work order statuses are derived.
- fleetmaint://docs/import: staging, TAG conflicts and committing a week.

## Tool groups

- Import: stage_import, commit_import, discard_import, list_pending_imports
- Weeks: list_weeks, get_week, delete_week, week_board
- Entries: entry_detail, promote_entry, reopen_entry, restart_entry, rename_tag
- Cards: list_cards, start_card, conclude_card, delete_card
- Releases: record_release, list_releases, delete_release
- Fleets: get_fleet_order, add_fleet, reorder_fleets
- Activity: recent_activity

Errors come back as tool results with isError set and a JSON body carrying code, message and recovery_hint.
`,
	},
	{
		URI:         "fleetmaint://docs/statuses",
		Name:        "docs_statuses",
		Title:       "Derived statuses",
		Description: "Rules behind week_board and entry_detail.",
		Content: `# Derived statuses

An entry's status is derived on every read, in this order:

1. An active PREVENTIVE card tied to the entry: IN_PROGRESS.
2. No release linked to the entry (or, when unlinked, to the same week, TAG and day): PENDING.
3. The latest matching release is TOTAL: DONE.
4. Any matching release lists a work order as not completed: PARTIAL.
5. Some but not all work orders completed: PARTIAL. All completed: DONE.

Work orders are matched by number. Once a release lists a work order as done, later not-done marks are ignored.

reopen_entry only works on PARTIAL or DONE entries and seeds the new card with the pending work orders.
`,
	},
	{
		URI:         "fleetmaint://docs/import",
		Name:        "docs_import",
		Title:       "Importing a week",
		Description: "Staging, TAG conflicts and committing.",
		Content: `# Importing a week

stage_import uploads every file, extracts them in parallel and consolidates the rows:

- TAGs are normalized (upper case, accents and separators dropped).
- Rows for the same TAG and day merge; work orders are deduplicated by number.
- Rows without a TAG or day are skipped and listed.
- TAGs that normalize to the same base but are spelled differently form a conflict group.

A clean import is committed immediately. An import with TAG conflicts, or with some failed files, is held as a pending import for review. When no file extracts, the import fails and lists every file error.

commit_import needs a chosen TAG for every conflict group: {"resolution": {"<base>": "<chosen TAG>"}}.
A week number and year can only be imported once; delete_week first to import it again.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
