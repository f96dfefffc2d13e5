package tools

import (
	"context"
	"strings"
	"time"

	"github.com/macroman/macroman/internal/tool"
)

var sendUpdatesValues = map[string]struct{}{
	"all":          {},
	"externalOnly": {},
	"none":         {},
}

// RegisterCalendarTools registers the tools backed by the external calendar
// service.
func RegisterCalendarTools(registry *tool.Registry, service *serviceClient) error {
	if err := registry.Register(tool.Descriptor{
		Name:        "list_events",
		Description: "List calendar events in a time window via the external service.",
		Params: []tool.Param{
			{Name: "timeMin", Type: tool.TypeString, Required: true, Description: "Window start, RFC 3339 (e.g. 2025-10-20T00:00:00Z)"},
			{Name: "timeMax", Type: tool.TypeString, Required: true, Description: "Window end, RFC 3339"},
			{Name: "max_results", Type: tool.TypeInteger, Default: 10, Description: "Maximum number of events to return"},
			{Name: "q", Type: tool.TypeString, Default: "", Description: "Free-text search query"},
		},
		Returns: tool.TypeObject,
	}, tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
		return ListEvents(ctx, service, EventQuery{
			TimeMin:    args.String("timeMin"),
			TimeMax:    args.String("timeMax"),
			MaxResults: args.Int("max_results"),
			Query:      args.String("q"),
		})
	})); err != nil {
		return err
	}

	return registry.Register(tool.Descriptor{
		Name:        "schedule_meet",
		Description: "Schedule a calendar invite with a meeting link via the external service.",
		Params: []tool.Param{
			{Name: "title", Type: tool.TypeString, Required: true, Description: "Event title"},
			{Name: "start", Type: tool.TypeString, Required: true, Description: "Start datetime, RFC 3339 (e.g. 2025-10-21T10:00:00Z)"},
			{Name: "end", Type: tool.TypeString, Required: true, Description: "End datetime, RFC 3339"},
			{Name: "description", Type: tool.TypeString, Default: "", Description: "Event description"},
			{Name: "time_zone", Type: tool.TypeString, Default: "", Description: "IANA time zone name"},
			{Name: "attendees", Type: tool.TypeArray, Default: []any{}, Description: "Attendee email addresses"},
			{Name: "send_updates", Type: tool.TypeString, Default: "none", Description: "One of: all, externalOnly, none"},
		},
		Returns: tool.TypeObject,
	}, tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
		return ScheduleMeet(ctx, service, MeetRequest{
			Title:       args.String("title"),
			Start:       args.String("start"),
			End:         args.String("end"),
			Description: args.String("description"),
			TimeZone:    args.String("time_zone"),
			Attendees:   args.StringSlice("attendees"),
			SendUpdates: args.String("send_updates"),
		})
	}))
}

// EventQuery selects which events ListEvents requests.
type EventQuery struct {
	TimeMin    string
	TimeMax    string
	MaxResults int
	Query      string
}

// ListEvents fetches the events inside the query window from the service.
func ListEvents(ctx context.Context, service *serviceClient, query EventQuery) (map[string]any, error) {
	query.TimeMin = strings.TrimSpace(query.TimeMin)
	query.TimeMax = strings.TrimSpace(query.TimeMax)

	if _, err := time.Parse(time.RFC3339, query.TimeMin); err != nil {
		return nil, tool.NewToolError(tool.SubkindInvalidInput,
			"timeMin must be RFC 3339 like 2025-10-20T00:00:00Z")
	}
	if _, err := time.Parse(time.RFC3339, query.TimeMax); err != nil {
		return nil, tool.NewToolError(tool.SubkindInvalidInput,
			"timeMax must be RFC 3339 like 2025-10-27T23:59:59Z")
	}
	if query.MaxResults <= 0 {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "max_results must be a positive integer")
	}

	payload := map[string]any{
		"timeMin":    query.TimeMin,
		"timeMax":    query.TimeMax,
		"maxResults": query.MaxResults,
	}
	if v := strings.TrimSpace(query.Query); v != "" {
		payload["q"] = v
	}

	return service.post(ctx, "/list-events", payload)
}

// MeetRequest describes one calendar invite.
type MeetRequest struct {
	Title       string
	Start       string
	End         string
	Description string
	TimeZone    string
	Attendees   []string
	SendUpdates string
}

// ScheduleMeet validates the invite and relays it to the service.
func ScheduleMeet(ctx context.Context, service *serviceClient, req MeetRequest) (map[string]any, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Start = strings.TrimSpace(req.Start)
	req.End = strings.TrimSpace(req.End)

	if req.Title == "" {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "title is required")
	}
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return nil, tool.NewToolError(tool.SubkindInvalidInput,
			"start must be RFC 3339 like 2025-10-21T10:00:00Z")
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return nil, tool.NewToolError(tool.SubkindInvalidInput,
			"end must be RFC 3339 like 2025-10-21T10:30:00Z")
	}
	if !end.After(start) {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "end must be after start")
	}
	if _, ok := sendUpdatesValues[req.SendUpdates]; !ok {
		return nil, tool.NewToolError(tool.SubkindInvalidInput,
			"send_updates must be one of: all, externalOnly, none")
	}

	attendees := make([]string, 0, len(req.Attendees))
	for _, attendee := range req.Attendees {
		attendee = strings.TrimSpace(attendee)
		if !emailPattern.MatchString(attendee) {
			return nil, tool.NewToolError(tool.SubkindInvalidInput,
				"invalid attendee email format: %s", attendee)
		}
		attendees = append(attendees, attendee)
	}

	payload := map[string]any{
		"title":       req.Title,
		"start":       req.Start,
		"end":         req.End,
		"sendUpdates": req.SendUpdates,
	}
	if v := strings.TrimSpace(req.Description); v != "" {
		payload["description"] = v
	}
	if v := strings.TrimSpace(req.TimeZone); v != "" {
		payload["timeZone"] = v
	}
	if len(attendees) > 0 {
		payload["attendees"] = attendees
	}

	return service.post(ctx, "/schedule-meet", payload)
}
