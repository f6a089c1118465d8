package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/cycletrack/internal/domain/activity"
)

type emptyInput struct{}

type toggleDayInput struct {
	Day     int  `json:"day" jsonschema:"cycle day number, starting at 1"`
	Checked bool `json:"checked" jsonschema:"true marks the day complete, false un-marks it"`
}

type setCapsulesInput struct {
	Day      int    `json:"day" jsonschema:"cycle day number, starting at 1"`
	Compound string `json:"compound" jsonschema:"one of osta, rad, card"`
	Count    int    `json:"count" jsonschema:"capsules taken that day; negative values are stored as 0"`
}

type setStartDateInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"date of day 1 as YYYY-MM-DD; omit or leave empty to clear"`
}

type recentActivityInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"maximum entries to return (default 50)"`
	Day   int    `json:"day,omitempty" jsonschema:"only entries for this day"`
	Type  string `json:"type,omitempty" jsonschema:"only entries of this type, e.g. day_checked"`
}

type activityOutput struct {
	Entries []activity.Entry `json:"entries"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_progress",
		Description: "Get the stored progress record: checked days, recorded capsule counts and the start date",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Progress.Fetch(ctx)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, p, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_view",
		Description: "Get the merged calendar: every day with its date label, dose labels, effective capsule counts, plus remaining supply",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
		v, err := svc.Progress.View(ctx)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, v, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_schedule",
		Description: "Get the week-by-week dosing schedule, per-day capsule defaults and capsule supply",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
		return nil, svc.Progress.Cycle().Table(), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_day",
		Description: "Mark a day complete or incomplete. Completing a day with no start date sets it to today; un-marking day 1 clears it",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in toggleDayInput) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Progress.ToggleDay(ctx, in.Day, in.Checked)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, p, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_capsules",
		Description: "Record how many capsules of one compound were taken on a day",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in setCapsulesInput) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Progress.SetCapsules(ctx, in.Day, in.Compound, in.Count)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, p, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_start_date",
		Description: "Set or clear the calendar date of day 1",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in setStartDateInput) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Progress.SetStartDate(ctx, in.StartDate)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, p, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent changes to the progress record, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in recentActivityInput) (*sdkmcp.CallToolResult, any, error) {
		opts := activity.ListOptions{Limit: in.Limit}
		if in.Day > 0 {
			day := in.Day
			opts.Day = &day
		}
		if in.Type != "" {
			typ := activity.Type(in.Type)
			opts.Type = &typ
		}
		entries, err := svc.Activity.Recent(ctx, opts)
		if err != nil {
			return nil, nil, MapError(err)
		}
		return nil, activityOutput{Entries: entries}, nil
	})
}
