package tools

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xenking/memcommerce-mcp/internal/catalog"
	"github.com/xenking/memcommerce-mcp/internal/gateway"
)

// ArgBestEffort switches a create tool to per-record outcomes.
const ArgBestEffort = "best_effort"

func fetchAllHandler[W catalog.Encoder, R catalog.Encoder, RP catalog.Decoder[R]](
	name string,
	res *gateway.Resource[W, R, RP],
) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := res.FetchAll(ctx)
		if err != nil {
			return failure(ctx, name, err), nil
		}
		return mcp.NewToolResultText(string(catalog.MarshalList(records))), nil
	}
}

func createHandler[W catalog.Encoder, WP catalog.Decoder[W], R catalog.Encoder, RP catalog.Decoder[R]](
	name, arg string,
	res *gateway.Resource[W, R, RP],
) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()

		records, err := decodeRecords[W, WP](args, arg, res.Entity())
		if err != nil {
			zctx.From(ctx).Info("Rejected tool arguments",
				zap.String("tool", name),
				zap.Error(err),
			)
			return mcp.NewToolResultError("InvalidArguments: " + err.Error()), nil
		}

		if bestEffort, _ := args[ArgBestEffort].(bool); bestEffort {
			return outcomesResult(res.CreateEach(ctx, records)), nil
		}

		created, err := res.CreateMany(ctx, records)
		if err != nil {
			return failure(ctx, name, err), nil
		}
		return mcp.NewToolResultText(string(catalog.MarshalList(created))), nil
	}
}

// decodeRecords runs the tool argument through the same codec used for
// backend payloads, so missing, mistyped or out of range fields are reported
// identically.
func decodeRecords[W any, WP catalog.Decoder[W]](args map[string]any, arg, entity string) ([]W, error) {
	raw, ok := args[arg]
	if !ok {
		return nil, errors.Wrapf(catalog.ErrInvalid, "missing %q", arg)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "encode arguments")
	}
	records, err := catalog.DecodeList[W, WP](entity, data)
	if err != nil {
		return nil, errors.Wrapf(catalog.ErrInvalid, "%s: %s", arg, err)
	}
	return records, nil
}

// failure renders a gateway error as an error result. The text starts with
// the error kind so the caller can tell an unreachable backend from a
// contract mismatch.
func failure(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	kind := gateway.Classify(err)
	zctx.From(ctx).Warn("Tool call failed",
		zap.String("tool", tool),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		return mcp.NewToolResultError(gerr.Error())
	}
	return mcp.NewToolResultError(string(kind) + ": " + err.Error())
}

// outcomesResult renders best-effort outcomes. The result is flagged as an
// error when at least one record failed.
func outcomesResult[R catalog.Encoder](outcomes []gateway.Outcome[R]) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(gateway.MarshalOutcomes(outcomes)))},
		IsError: gateway.Failed(outcomes) > 0,
	}
}
