package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/deixis/hosttriple"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type hostTripleParams struct {
	Strategy string `json:"strategy,omitempty" jsonschema:"parsing strategy: lines (default) or bytes. Both return the same result."`
}

func (h *handler) hostTripleHandler(ctx context.Context, req *mcp.CallToolRequest, params hostTripleParams) (*mcp.CallToolResult, any, error) {
	opts := append([]hosttriple.Option(nil), h.opts...)
	if params.Strategy != "" {
		s, err := hosttriple.ParseStrategy(params.Strategy)
		if err != nil {
			return errorResult(err.Error())
		}
		opts = append(opts, hosttriple.WithStrategy(s))
	}

	host, err := hosttriple.Query(ctx, opts...)
	if err != nil {
		return errorResult(formatQueryError(err))
	}
	return textResult(host)
}

func formatQueryError(err error) string {
	var qe *hosttriple.Error
	if errors.As(err, &qe) {
		return fmt.Sprintf("%s: %v", qe.Kind, err)
	}
	return err.Error()
}
