package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerScheduleResource(srv, svc)
	registerRowTemplate(srv, svc)
}

func registerScheduleResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"slotboard://schedule",
		"Schedule",
		mcp.WithResourceDescription("Every row of the schedule with its events and the timeline geometry."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Schedule(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerRowTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"slotboard://rows/{row}",
		"Row Events",
		mcp.WithTemplateDescription("Events of a single zero-based row."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		r, err := rowArgument(request.Params.Arguments["row"])
		if err != nil {
			return nil, err
		}

		dto, err := svc.Row(ctx, r)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// rowArgument accepts the template variable either as a string or as the
// single-element list some clients send.
func rowArgument(v any) (int, error) {
	switch t := v.(type) {
	case string:
		return strconv.Atoi(t)
	case []string:
		if len(t) == 1 {
			return strconv.Atoi(t[0])
		}
	}
	return 0, fmt.Errorf("row is required")
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
