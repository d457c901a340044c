package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/spotr/internal/shared"
)

// Response is a fully-read API response, yielded per chunk by a raw-mode
// [Batcher] for endpoints where only the status code matters.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// BatchOpts configures a [Batcher].
type BatchOpts struct {
	// Param names the query parameter (or JSON field, see JSONBody)
	// receiving each chunk's identifiers.
	Param string

	// ChunkSize is the endpoint's per-call identifier limit.
	ChunkSize int

	// ItemsField names the array field of each response to yield items
	// from. Empty selects raw mode: one Response per chunk.
	ItemsField string

	// JSONBody writes the chunk as a JSON array field named Param instead
	// of a comma-joined query parameter.
	JSONBody bool
}

// Batcher issues one call per fixed-size chunk of an identifier list,
// in input order, flattening item responses into a single sequence.
// Like [Pager] it is pull-driven: a chunk's call happens only once the
// previous chunk's items are consumed.
type Batcher struct {
	client *Client
	req    *Request
	opts   BatchOpts
	chunks [][]string
	cursor int // next chunk to fetch
	items  []json.RawMessage
	idx    int
	resp   *Response
	err    error
}

// Batch creates a [Batcher] over ids. len(ids)/ChunkSize rounded up is
// exactly the number of calls that will be issued.
func (c *Client) Batch(req *Request, ids []string, opts BatchOpts) *Batcher {
	return &Batcher{
		client: c,
		req:    req,
		opts:   opts,
		chunks: chunkIDs(ids, opts.ChunkSize),
		idx:    -1,
	}
}

// Next advances the sequence: to the next decoded item when ItemsField is
// set, otherwise to the next chunk's raw response. Returns false when all
// chunks are consumed or an error occurred.
func (b *Batcher) Next(ctx context.Context) bool {
	if b.err != nil {
		return false
	}
	if b.opts.ItemsField != "" && b.idx+1 < len(b.items) {
		b.idx++
		return true
	}
	for b.cursor < len(b.chunks) {
		if err := b.fetch(ctx); err != nil {
			b.err = err
			return false
		}
		if b.opts.ItemsField == "" {
			return true
		}
		if len(b.items) > 0 {
			b.idx = 0
			return true
		}
	}
	return false
}

// Item returns the current raw item. Valid only in item mode, after Next
// returned true.
func (b *Batcher) Item() json.RawMessage {
	return b.items[b.idx]
}

// Scan decodes the current item into v.
func (b *Batcher) Scan(v any) error {
	if err := json.Unmarshal(b.Item(), v); err != nil {
		return fmt.Errorf("failed to decode item: %w", err)
	}
	return nil
}

// Resp returns the current chunk's response. Valid only in raw mode,
// after Next returned true.
func (b *Batcher) Resp() *Response {
	return b.resp
}

// ChunkIndex returns the zero-based index of the chunk that produced the
// current item or response.
func (b *Batcher) ChunkIndex() int {
	return b.cursor - 1
}

// Err returns the first error encountered while iterating.
func (b *Batcher) Err() error {
	return b.err
}

func (b *Batcher) fetch(ctx context.Context) error {
	chunk := b.chunks[b.cursor]
	b.cursor++

	if b.opts.JSONBody {
		b.req.JSON = map[string]any{b.opts.Param: chunk}
	} else {
		b.req.SetParam(b.opts.Param, strings.Join(chunk, ","))
	}

	if b.opts.ItemsField != "" {
		var wrapper map[string]json.RawMessage
		if err := b.client.DoJSON(ctx, b.req, &wrapper); err != nil {
			return err
		}
		nested, ok := wrapper[b.opts.ItemsField]
		if !ok {
			return fmt.Errorf("%w: response missing %q field", shared.ErrAPIRequest, b.opts.ItemsField)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(nested, &items); err != nil {
			return fmt.Errorf("failed to decode %q field: %w", b.opts.ItemsField, err)
		}
		b.items = items
		return nil
	}

	resp, err := b.client.Do(ctx, b.req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	b.resp = &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	return nil
}

// batchMutate drives a raw-mode batcher over a mutation endpoint,
// requiring the given status from every chunk. The first failing chunk
// aborts the sequence and is reported with its index.
func (c *Client) batchMutate(ctx context.Context, req *Request, ids []string, opts BatchOpts, want int) error {
	b := c.Batch(req, ids, opts)
	for b.Next(ctx) {
		if resp := b.Resp(); resp.StatusCode != want {
			return fmt.Errorf("chunk %d: %w: %w", b.ChunkIndex(), shared.ErrAPIRequest,
				&StatusError{Status: resp.StatusCode, Body: resp.Body})
		}
	}
	if err := b.Err(); err != nil {
		return fmt.Errorf("chunk %d: %w", b.ChunkIndex(), err)
	}
	return nil
}
