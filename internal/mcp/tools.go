package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func toolFor[T any](name, description string) *sdkmcp.Tool {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("schema for %s: %v", name, err))
	}
	return &sdkmcp.Tool{Name: name, Description: description, InputSchema: schema}
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []*sdkmcp.Tool {
	return []*sdkmcp.Tool{
		// Import
		toolFor[StageImportParams]("stage_import", "Extract one weekly schedule from per-fleet files. Clean imports are committed; imports with TAG conflicts or failed files are held as a pending import."),
		toolFor[CommitImportParams]("commit_import", "Commit a staged import as a weekly schedule. Every TAG conflict group needs a chosen TAG in resolution."),
		toolFor[PendingIDParams]("discard_import", "Discard a staged import without writing a schedule"),
		toolFor[NoParams]("list_pending_imports", "List staged imports waiting for review"),

		// Weeks
		toolFor[ListWeeksParams]("list_weeks", "List imported weekly schedules, newest first"),
		toolFor[WeekIDParams]("get_week", "Get a weekly schedule with its entries in fleet order"),
		toolFor[WeekIDParams]("delete_week", "Delete a weekly schedule and all of its entries"),
		toolFor[WeekIDParams]("week_board", "Reconcile every entry of a week against cards and releases and return the derived statuses"),

		// Entries
		toolFor[EntryIDParams]("entry_detail", "Reconcile one entry: derived status, work order statuses, active card and releases"),
		toolFor[EntryParams]("promote_entry", "Open a preventive maintenance card for an entry with all of its work orders"),
		toolFor[EntryParams]("reopen_entry", "Open a new card for a PARTIAL or DONE entry with only the work orders still pending"),
		toolFor[RestartEntryParams]("restart_entry", "Reset an entry to its imported state, deleting its active cards and releases. Requires confirm=true. Safe to call again when steps fail."),
		toolFor[RenameTagParams]("rename_tag", "Change the TAG of an entry and carry it to the entry's cards and releases. Safe to call again when steps fail."),

		// Cards
		toolFor[ListCardsParams]("list_cards", "List maintenance cards"),
		toolFor[IDParams]("start_card", "Move an OPEN card to IN_PROGRESS"),
		toolFor[IDParams]("conclude_card", "Conclude a card"),
		toolFor[IDParams]("delete_card", "Delete a card"),

		// Releases
		toolFor[RecordReleaseParams]("record_release", "Record a TOTAL or PARTIAL equipment release with the work orders done and not done"),
		toolFor[ListReleasesParams]("list_releases", "List release records, oldest first"),
		toolFor[IDParams]("delete_release", "Purge a release record"),

		// Fleets
		toolFor[NoParams]("get_fleet_order", "Get the fleet display order and its version"),
		toolFor[AddFleetParams]("add_fleet", "Append a fleet to the display order"),
		toolFor[ReorderFleetsParams]("reorder_fleets", "Replace the fleet display order"),

		// Activity
		toolFor[RecentActivityParams]("recent_activity", "Get recent operator activity, newest first"),
	}
}

func registerTools(server *sdkmcp.Server, handler *Handler) {
	for _, tool := range buildToolCatalog() {
		name := tool.Name
		server.AddTool(tool, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := handler.Handle(ctx, getOperator(ctx), name, args)
			if err != nil {
				return errorResult(err), nil
			}
			return jsonResult(result)
		})
	}
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
