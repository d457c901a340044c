package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/desertthunder/spotr/internal/shared"
)

// pagingObject is the server's collection page shape: a slice of items
// and an absolute next-page URL, null when exhausted.
type pagingObject struct {
	Items []json.RawMessage `json:"items"`
	Next  *string           `json:"next"`
	Total int               `json:"total"`
}

// PageOpts configures a [Pager].
type PageOpts struct {
	// ItemsField names a key the paging object is nested under in the
	// response (e.g. "albums" for new releases). Empty means the response
	// is the paging object itself.
	ItemsField string

	// PageSize sets the limit query parameter on the first request only.
	// Later pages use the server-furnished next URL, which already
	// encodes the limit. Must not exceed the endpoint's maximum.
	PageSize int
}

// Pager lazily walks a paginated collection, fetching the next page only
// when the current one is exhausted. It follows the scanner idiom:
//
//	pager := client.Paginate(req, PageOpts{})
//	for pager.Next(ctx) {
//		item := pager.Item()
//	}
//	if err := pager.Err(); err != nil { ... }
//
// A Pager is forward-only. Restarting means constructing a new Pager
// from a fresh descriptor; stopping early requires no cleanup.
type Pager struct {
	client  *Client
	req     *Request
	opts    PageOpts
	items   []json.RawMessage
	idx     int
	next    string
	started bool
	err     error
}

// Paginate creates a [Pager] over the paging-object endpoint the request
// describes. No network call happens until the first Next.
func (c *Client) Paginate(req *Request, opts PageOpts) *Pager {
	return &Pager{client: c, req: req, opts: opts, idx: -1}
}

// Next advances to the next item, fetching pages as needed. It returns
// false when the collection is exhausted or an error occurred.
func (p *Pager) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}
	if p.idx+1 < len(p.items) {
		p.idx++
		return true
	}
	for {
		if p.started && p.next == "" {
			return false
		}
		if err := p.fetch(ctx); err != nil {
			p.err = err
			return false
		}
		if len(p.items) > 0 {
			p.idx = 0
			return true
		}
		// empty page; keep following the cursor
	}
}

// Item returns the current raw item. Valid only after Next returned true.
func (p *Pager) Item() json.RawMessage {
	return p.items[p.idx]
}

// Scan decodes the current item into v.
func (p *Pager) Scan(v any) error {
	if err := json.Unmarshal(p.Item(), v); err != nil {
		return fmt.Errorf("failed to decode item: %w", err)
	}
	return nil
}

// Err returns the first error encountered while iterating.
func (p *Pager) Err() error {
	return p.err
}

func (p *Pager) fetch(ctx context.Context) error {
	if !p.started {
		if p.opts.PageSize > 0 {
			p.req.SetParam("limit", strconv.Itoa(p.opts.PageSize))
		}
		p.started = true
	} else {
		// each step fully replaces the prior URL; the next cursor
		// already embeds every parameter it needs
		p.req.URL = p.next
	}

	var raw json.RawMessage
	if err := p.client.DoJSON(ctx, p.req, &raw); err != nil {
		return err
	}

	if p.opts.ItemsField != "" {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		nested, ok := wrapper[p.opts.ItemsField]
		if !ok {
			return fmt.Errorf("%w: response missing %q field", shared.ErrAPIRequest, p.opts.ItemsField)
		}
		raw = nested
	}

	var page pagingObject
	if err := json.Unmarshal(raw, &page); err != nil {
		return fmt.Errorf("failed to decode paging object: %w", err)
	}

	p.items = page.Items
	if page.Next != nil {
		p.next = *page.Next
	} else {
		p.next = ""
	}
	return nil
}
