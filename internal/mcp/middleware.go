package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/williamwinkler/sitt/internal/domain/user"
)

type contextKey int

const userContextKey contextKey = iota

// currentUser extracts the authenticated user from context.
func currentUser(ctx context.Context) (*user.User, error) {
	usr, ok := ctx.Value(userContextKey).(*user.User)
	if !ok || usr == nil {
		return nil, fmt.Errorf("unauthorized: no authenticated user")
	}
	return usr, nil
}

// UserResolver resolves a user from an API key.
type UserResolver interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error)
}

// authMiddleware implements x-api-key authentication as MCP middleware.
func authMiddleware(resolver UserResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			apiKey := strings.TrimSpace(extra.Header.Get("x-api-key"))
			if apiKey == "" {
				return nil, fmt.Errorf("unauthorized: missing api key")
			}

			usr, err := resolver.GetByAPIKey(ctx, apiKey)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}

			ctx = context.WithValue(ctx, userContextKey, usr)
			return next(ctx, method, req)
		}
	}
}

// staticKeyMiddleware authenticates every call with a fixed API key. Used
// for the stdio transport, which carries no headers.
func staticKeyMiddleware(resolver UserResolver, apiKey string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			usr, err := resolver.GetByAPIKey(ctx, apiKey)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}

			ctx = context.WithValue(ctx, userContextKey, usr)
			return next(ctx, method, req)
		}
	}
}
