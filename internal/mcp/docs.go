package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `cycletrack tracks one person's progress through a fixed 9-week (63 day) dosing cycle.

State is a single record:
- checkedDays: day number -> completed flag.
- dailyCapsules: day number -> {osta, rad, card} capsules actually taken. Days without an entry use the week's default.
- startDate: calendar date of day 1 (YYYY-MM-DD), absent until set.

Workflow:
1) get_view to see every day with its date label, doses and capsule counts, plus remaining supply.
2) toggle_day / set_capsules / set_start_date to record changes. Each returns the updated record.
3) get_recent_activity to review what changed.

Rules:
- Completing any day while no start date is set starts the cycle today.
- Un-marking day 1 clears the start date. Other days never touch it.
- Capsule counts below 0 are stored as 0.

Docs: cycle://docs/guide`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "cycle://docs/guide",
		Name:        "guide",
		Title:       "cycletrack guide",
		Description: "Schedule phases, default capsule counts and how remaining supply is computed.",
		Content: `# cycletrack guide

## Phases

| Weeks | Phase | Notes |
|---|---|---|
| 1 | Tolerance Check | lowest doses |
| 2-4 | Ramp Up | ostarine steps up in week 4 |
| 5-7 | Peak Phase | ostarine and RAD-140 at 2 caps in weeks 5-6 |
| 8-9 | Taper | back to 1 cap each |

Call ` + "`get_schedule`" + ` for exact dose labels; each label starts with the default capsule count for that week.

## Capsule counts

A day with no recorded counts uses the week's defaults. Recording a single compound
(` + "`set_capsules`" + `) copies the other two from the defaults so the day's entry is complete.

## Remaining supply

remaining = supply - sum over all 63 days of the effective count. It can go negative when the
supply on hand does not cover the full schedule.

## Dates

Day N falls on startDate + (N-1) days. Without a start date every day shows "Set start date".
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
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
