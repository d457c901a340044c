package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestPager(t *testing.T) {
	ctx := context.Background()

	t.Run("WalksPages", func(t *testing.T) {
		var calls atomic.Int32
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			switch r.URL.Path {
			case "/v1/me/tracks":
				if limit := r.URL.Query().Get("limit"); limit != "2" {
					t.Errorf("expected limit=2 on first request, got %q", limit)
				}
				fmt.Fprintf(w, `{"items":[{"n":1},{"n":2}],"next":%q,"total":3}`, srv.URL+"/v1/page2")
			case "/v1/page2":
				fmt.Fprint(w, `{"items":[{"n":3}],"next":null,"total":3}`)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/me/tracks"), PageOpts{PageSize: 2})

		var got []int
		for pager.Next(ctx) {
			var item struct {
				N int `json:"n"`
			}
			if err := pager.Scan(&item); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			got = append(got, item.N)
		}
		if err := pager.Err(); err != nil {
			t.Fatalf("pager failed: %v", err)
		}

		if len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Errorf("unexpected items %v", got)
		}
		if calls.Load() != 2 {
			t.Errorf("expected exactly 2 requests, got %d", calls.Load())
		}
	})

	t.Run("LazyUntilFirstNext", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprint(w, `{"items":[],"next":null}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/me/tracks"), PageOpts{})

		if calls.Load() != 0 {
			t.Fatal("constructing a pager must not issue a request")
		}

		if pager.Next(ctx) {
			t.Error("expected no items")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 request after Next, got %d", calls.Load())
		}
	})

	t.Run("EarlyStopFetchesNoFurtherPages", func(t *testing.T) {
		var calls atomic.Int32
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			fmt.Fprintf(w, `{"items":[{"n":1},{"n":2}],"next":%q}`, srv.URL+"/v1/page2")
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/me/tracks"), PageOpts{})

		if !pager.Next(ctx) {
			t.Fatal("expected first item")
		}
		if !pager.Next(ctx) {
			t.Fatal("expected second item")
		}

		if calls.Load() != 1 {
			t.Errorf("expected 1 request while items remain buffered, got %d", calls.Load())
		}
	})

	t.Run("SkipsEmptyPages", func(t *testing.T) {
		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/v1/start":
				fmt.Fprintf(w, `{"items":[],"next":%q}`, srv.URL+"/v1/page2")
			case "/v1/page2":
				fmt.Fprint(w, `{"items":[{"n":1}],"next":null}`)
			}
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/start"), PageOpts{})

		if !pager.Next(ctx) {
			t.Fatalf("expected item past empty page, err=%v", pager.Err())
		}
	})

	t.Run("NestedPagingObject", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"albums":{"items":[{"id":"al_1"}],"next":null}}`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/browse/new-releases"), PageOpts{ItemsField: "albums"})

		if !pager.Next(ctx) {
			t.Fatalf("expected item, err=%v", pager.Err())
		}

		var album Album
		if err := pager.Scan(&album); err != nil {
			t.Fatalf("scan failed: %v", err)
		}
		if album.ID != "al_1" {
			t.Errorf("expected al_1, got %q", album.ID)
		}
	})

	t.Run("SurfacesAPIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := newTestClient(t, srv, Options{AccessToken: "tok"})
		pager := client.Paginate(NewRequest(http.MethodGet, srv.URL+"/v1/me/tracks"), PageOpts{})

		if pager.Next(ctx) {
			t.Error("expected no items on error")
		}
		if pager.Err() == nil {
			t.Error("expected error recorded")
		}
		if pager.Next(ctx) {
			t.Error("iteration must stay stopped after an error")
		}
	})
}
