package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const corsAllowMethods = "GET,POST,OPTIONS"
const corsAllowHeaders = "Content-Type,X-Agent-Key"

// allowedOrigin picks the Access-Control-Allow-Origin value for a request
// origin; an empty result means the origin is not allowed.
func allowedOrigin(origins []string, origin string) string {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(origins, origin) {
		return origin
	}
	return ""
}

func applyCORSHeaders(ctx *app.RequestContext, allowOrigin string) {
	if allowOrigin == "" {
		return
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
	if allowOrigin != "*" {
		ctx.Response.Header.Set("Vary", "Origin")
	}
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware(origins []string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx, allowedOrigin(origins, string(ctx.GetHeader("Origin"))))
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
