package jobsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, key string, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(Config{APIKey: key, BaseURL: srv.URL}, zerolog.Nop()), &calls
}

func TestSearchWithoutKeyMakesNoRequest(t *testing.T) {
	c, calls := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Search(context.Background(), SearchParams{Query: "go"})
	if !errors.Is(err, apperrors.ErrJobAPIKeyMissing) {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if _, err := c.Details(context.Background(), "abc"); !errors.Is(err, apperrors.ErrJobAPIKeyMissing) {
		t.Fatalf("expected missing key error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestSearchParams(t *testing.T) {
	c, _ := newTestClient(t, "k1", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-RapidAPI-Key"); got != "k1" {
			t.Errorf("key header %q", got)
		}
		if got := r.Header.Get("X-RapidAPI-Host"); got != DefaultHost {
			t.Errorf("host header %q", got)
		}
		q := r.URL.Query()
		if q.Get("query") != "software engineer in Boston" {
			t.Errorf("query %q", q.Get("query"))
		}
		if q.Get("page") != "1" || q.Get("num_pages") != "1" || q.Get("date_posted") != "all" {
			t.Errorf("fixed params %v", q)
		}
		if q.Get("employment_types") != "INTERN" {
			t.Errorf("employment_types %q", q.Get("employment_types"))
		}
		w.Write([]byte(`{"status":"OK","data":[{"job_id":"j1","job_title":"Intern"}]}`))
	})

	res, err := c.Search(context.Background(), SearchParams{Query: "software engineer", Location: "Boston", EmploymentType: "INTERN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Data) != 1 || res.Data[0].ID != "j1" {
		t.Fatalf("unexpected data: %+v", res.Data)
	}
}

func TestSearchOmitsEmptyEmploymentType(t *testing.T) {
	c, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["employment_types"]; ok {
			t.Error("employment_types sent while empty")
		}
		if r.URL.Query().Get("page") != "3" {
			t.Errorf("page %q", r.URL.Query().Get("page"))
		}
		w.Write([]byte(`{"data":[]}`))
	})
	if _, err := c.Search(context.Background(), SearchParams{Query: "go", Page: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDetails(t *testing.T) {
	c, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("job_id") == "missing" {
			w.Write([]byte(`{"data":[]}`))
			return
		}
		w.Write([]byte(`{"data":[{"job_id":"j2","job_min_salary":90000}]}`))
	})

	job, err := c.Details(context.Background(), "j2")
	if err != nil || job.ID != "j2" || job.MinSalary != 90000 {
		t.Fatalf("got %+v, %v", job, err)
	}
	if _, err := c.Details(context.Background(), "missing"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, apperrors.ErrRateLimited},
		{http.StatusForbidden, apperrors.ErrJobAPIKeyMissing},
		{http.StatusInternalServerError, apperrors.ErrBadRequest},
	}
	for _, tc := range cases {
		c, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"message":"nope"}`))
		})
		_, err := c.Search(context.Background(), SearchParams{Query: "x"})
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v", tc.status, err)
		}
	}
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestClient(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})
	if _, err := c.Search(context.Background(), SearchParams{Query: "x"}); !errors.Is(err, apperrors.ErrMalformedResponse) {
		t.Fatalf("got %v", err)
	}
}
