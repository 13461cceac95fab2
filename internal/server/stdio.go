package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Serve runs the newline-delimited JSON-RPC loop over in/out until in is
// exhausted or ctx is cancelled. Messages are handled one at a time, in
// arrival order; responses are written one per line.
//
// mcp-go's StdioServer calls MCPServer.HandleMessage directly, which
// would bypass Router, so the loop lives here.
func Serve(ctx context.Context, r *Router, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if strings.TrimSpace(line) != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	w := &lineWriter{out: out}
	for {
		select {
		case <-ctx.Done():
			// The reader goroutine may be blocked on in; do not wait for it.
			return nil
		case line, ok := <-lines:
			if !ok {
				wg.Wait()
				select {
				case err := <-readErr:
					return fmt.Errorf("reading input: %w", err)
				default:
					return nil
				}
			}
			if err := r.serveLine(ctx, line, w); err != nil {
				return err
			}
		}
	}
}

func (r *Router) serveLine(ctx context.Context, line string, w *lineWriter) error {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		r.logger.Info("unparsable message", zap.Error(err))
		return w.write(mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil))
	}

	response := r.HandleMessage(ctx, raw)
	if response == nil {
		return nil
	}
	return w.write(response)
}

// lineWriter writes one JSON document per line.
type lineWriter struct {
	out io.Writer
}

func (w *lineWriter) write(msg mcp.JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}
