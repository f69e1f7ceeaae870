package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListScheduleTool(srv, svc)
	registerCreateEventTool(srv, svc)
	registerMoveEventTool(srv, svc)
	registerDeleteEventTool(srv, svc)
	registerClearTool(srv, svc)
	registerValidateTool(srv, svc)
}

func registerListScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_schedule",
		mcp.WithDescription("List every row of the schedule with its events."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Schedule(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerCreateEventTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_event",
		mcp.WithDescription("Create an event on a row covering the inclusive slots start..end."),
		mcp.WithNumber("row",
			mcp.Required(),
			mcp.Description("Zero-based row that should hold the event."),
		),
		mcp.WithNumber("start",
			mcp.Required(),
			mcp.Description("First slot covered by the event."),
		),
		mcp.WithNumber("end",
			mcp.Required(),
			mcp.Description("Last slot covered by the event."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title."),
		),
		mcp.WithBoolean("snap",
			mcp.Description("Shrink the range to fit between neighbors instead of failing on overlap."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Row   int    `json:"row"`
			Start int    `json:"start"`
			End   int    `json:"end"`
			Title string `json:"title"`
			Snap  bool   `json:"snap"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.CreateEvent(ctx, args.Row, args.Start, args.End, args.Title, args.Snap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveEventTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_event",
		mcp.WithDescription("Move or resize an event; the range snaps against neighbors on the same row."),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row of the event.")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based index of the event within its row.")),
		mcp.WithNumber("start", mcp.Required(), mcp.Description("Requested first slot.")),
		mcp.WithNumber("end", mcp.Required(), mcp.Description("Requested last slot.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Row   int `json:"row"`
			Index int `json:"index"`
			Start int `json:"start"`
			End   int `json:"end"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.MoveEvent(ctx, args.Row, args.Index, args.Start, args.End)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteEventTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_event",
		mcp.WithDescription("Delete a single event."),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Zero-based row of the event.")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based index of the event within its row.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r, err := request.RequireInt("row")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		i, err := request.RequireInt("index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.DeleteEvent(ctx, r, i)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerClearTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"clear",
		mcp.WithDescription("Remove every event of a row, or of the whole schedule when row is omitted."),
		mcp.WithNumber("row", mcp.Description("Zero-based row to clear; omit to clear everything.")),
		mcp.WithBoolean("confirm",
			mcp.Required(),
			mcp.Description("Must be true; clearing cannot be undone."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		r := request.GetInt("row", -1)
		confirm := request.GetBool("confirm", false)

		dto, err := svc.Clear(ctx, r, confirm)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerValidateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"validate",
		mcp.WithDescription("Check whether a JSON payload is a valid schedule file for this timeline."),
		mcp.WithString("payload",
			mcp.Required(),
			mcp.Description("The schedule file contents."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		payload, err := request.RequireString("payload")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.Validate(ctx, payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
