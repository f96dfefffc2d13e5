package tools

import (
	"context"
	"regexp"
	"strings"

	"github.com/macroman/macroman/internal/tool"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RegisterEmailTools registers the tools backed by the external email
// service.
func RegisterEmailTools(registry *tool.Registry, service *serviceClient) error {
	if err := registry.Register(tool.Descriptor{
		Name:        "send_email",
		Description: "Send an email via the external email service.",
		Params: []tool.Param{
			{Name: "to", Type: tool.TypeString, Required: true, Description: "Recipient email address"},
			{Name: "subject", Type: tool.TypeString, Required: true, Description: "Email subject"},
			{Name: "body", Type: tool.TypeString, Required: true, Description: "Email body content"},
		},
		Returns: tool.TypeObject,
	}, tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
		return SendEmail(ctx, service, args.String("to"), args.String("subject"), args.String("body"))
	})); err != nil {
		return err
	}

	return registry.Register(tool.Descriptor{
		Name:        "read_email",
		Description: "Read emails from the external email service using optional filters.",
		Params: []tool.Param{
			{Name: "from_name", Type: tool.TypeString, Default: "", Description: "Filter by sender display name"},
			{Name: "subject_contains", Type: tool.TypeString, Default: "", Description: "Filter by subject substring"},
			{Name: "thread_contains", Type: tool.TypeString, Default: "", Description: "Filter by thread content substring"},
			{Name: "after", Type: tool.TypeString, Default: "", Description: "Only emails after this date (YYYY-MM-DD)"},
			{Name: "max_results", Type: tool.TypeInteger, Default: 10, Description: "Maximum number of emails to return"},
			{Name: "include_body", Type: tool.TypeBoolean, Default: false, Description: "Include full body content"},
		},
		Returns: tool.TypeObject,
	}, tool.ExecutorFunc(func(ctx context.Context, args tool.Args) (any, error) {
		return ReadEmail(ctx, service, EmailFilter{
			FromName:        args.String("from_name"),
			SubjectContains: args.String("subject_contains"),
			ThreadContains:  args.String("thread_contains"),
			After:           args.String("after"),
			MaxResults:      args.Int("max_results"),
			IncludeBody:     args.Bool("include_body"),
		})
	}))
}

// SendEmail validates the recipient and relays the message to the service.
func SendEmail(ctx context.Context, service *serviceClient, to, subject, body string) (map[string]any, error) {
	to = strings.TrimSpace(to)
	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)

	if to == "" {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "recipient email address is required")
	}
	if subject == "" {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "email subject is required")
	}
	if body == "" {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "email body is required")
	}
	if !emailPattern.MatchString(to) {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "invalid email address format: %s", to)
	}

	result, err := service.post(ctx, "/send-email", map[string]any{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"success":   resultBool(result, "success"),
		"message":   resultString(result, "message", "Email sent successfully"),
		"messageId": result["messageId"],
		"recipient": to,
		"subject":   subject,
		"details":   result,
	}, nil
}

// EmailFilter selects which emails ReadEmail requests. Zero values mean
// "no filter" and are omitted from the service payload.
type EmailFilter struct {
	FromName        string
	SubjectContains string
	ThreadContains  string
	After           string
	MaxResults      int
	IncludeBody     bool
}

// ReadEmail fetches emails matching filter from the service.
func ReadEmail(ctx context.Context, service *serviceClient, filter EmailFilter) (map[string]any, error) {
	if filter.MaxResults <= 0 {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "max_results must be a positive integer")
	}
	if after := strings.TrimSpace(filter.After); after != "" && !datePattern.MatchString(after) {
		return nil, tool.NewToolError(tool.SubkindInvalidInput, "after must be a date in format YYYY-MM-DD")
	}

	payload := map[string]any{
		"maxResults":  filter.MaxResults,
		"includeBody": filter.IncludeBody,
	}
	if v := strings.TrimSpace(filter.FromName); v != "" {
		payload["fromName"] = v
	}
	if v := strings.TrimSpace(filter.SubjectContains); v != "" {
		payload["subjectContains"] = v
	}
	if v := strings.TrimSpace(filter.ThreadContains); v != "" {
		payload["threadContains"] = v
	}
	if v := strings.TrimSpace(filter.After); v != "" {
		payload["after"] = v
	}

	return service.post(ctx, "/read-email", payload)
}

func resultBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func resultString(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
