package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"canvasmcp/server/internal/jsonrpc"
	"canvasmcp/server/internal/modules"
)

// ServeStdio runs the newline-delimited JSON-RPC loop on stdin/stdout.
// stdout carries protocol frames only; all logging goes to stderr.
// Notifications (requests without an id) get no response. Returns when
// stdin reaches EOF or ctx is cancelled.
func (h *Handler) ServeStdio(ctx context.Context) error {
	return h.serve(ctx, os.Stdin, os.Stdout)
}

func (h *Handler) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Page aggregates can be large; a 1 MiB line is not unusual.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(out)

	seq := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req jsonrpc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(ErrorResponse(nil, jsonrpc.ParseError, "Parse error")); err != nil {
				return err
			}
			continue
		}

		seq++
		reqCtx := modules.WithRequestID(ctx, fmt.Sprintf("stdio-%d", seq))
		result, rpcErr := h.ProcessRequest(reqCtx, &req)

		// Notifications carry no id and get no response.
		if req.ID == nil {
			continue
		}

		var resp *jsonrpc.Response
		if rpcErr != nil {
			resp = ErrorResponse(req.ID, rpcErr.Code, rpcErr.Message)
		} else {
			resp = SuccessResponse(req.ID, result)
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
		return err
	}
	return nil
}
