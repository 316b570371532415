package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 2*time.Second, zerolog.Nop())
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	ctx := WithToken(context.Background(), "abc.def.ghi")
	if err := c.Get(ctx, "/auth/me", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc.def.ghi" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	})

	if err := c.Get(context.Background(), "/posts", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestJSONRoundTripAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("expected limit=3, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"posts":[{"_id":"p1"}]}`))
	})

	var out struct {
		Posts []struct {
			ID string `json:"_id"`
		} `json:"posts"`
	}
	if err := c.Get(context.Background(), "/posts", url.Values{"limit": {"3"}}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Posts) != 1 || out.Posts[0].ID != "p1" {
		t.Fatalf("unexpected body %+v", out)
	}
}

func TestErrorMessageDecoded(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
		msg    string
	}{
		{http.StatusBadRequest, `{"message":"Title is required"}`, apperrors.ErrValidationFailed, "Title is required"},
		{http.StatusUnauthorized, `{"error":"Not authorized"}`, apperrors.ErrUnauthorized, "Not authorized"},
		{http.StatusForbidden, `{"error":{"message":"Admins only"}}`, apperrors.ErrPermissionDenied, "Admins only"},
		{http.StatusNotFound, `not json`, apperrors.ErrResourceNotFound, ""},
	}

	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})

		err := c.Post(context.Background(), "/x", map[string]string{"a": "b"}, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		if got := apperrors.UserMessage(err, ""); got != tc.msg {
			t.Errorf("status %d: expected message %q, got %q", tc.status, tc.msg, got)
		}
	}
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts":`))
	})
	var out map[string]any
	err := c.Get(context.Background(), "/posts", nil, &out)
	if !errors.Is(err, apperrors.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:1/api", 200*time.Millisecond, zerolog.Nop())
	err := c.Get(context.Background(), "/posts", nil, nil)
	if !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestMultipartUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Hello" {
			t.Errorf("unexpected title %q", got)
		}
		if got := r.MultipartForm.Value["tags"]; len(got) != 2 {
			t.Errorf("expected 2 tags, got %v", got)
		}
		f, hdr, err := r.FormFile("images")
		if err != nil {
			t.Fatalf("missing file: %v", err)
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "a.jpg" || string(data) != "JPEGDATA" {
			t.Errorf("unexpected file %s %q", hdr.Filename, data)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"post": map[string]string{"_id": "p9"}})
	})

	var out struct {
		Post struct {
			ID string `json:"_id"`
		} `json:"post"`
	}
	err := c.PostMultipart(context.Background(), "/posts",
		map[string][]string{"title": {"Hello"}, "tags": {"go", "web"}},
		[]File{{Field: "images", Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("JPEGDATA")}},
		&out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Post.ID != "p9" {
		t.Fatalf("unexpected response %+v", out)
	}
}

func TestAssetURL(t *testing.T) {
	c := New("http://localhost:5000/api", time.Second, zerolog.Nop())
	if got := c.AssetURL("/uploads/a.jpg"); got != "http://localhost:5000/uploads/a.jpg" {
		t.Errorf("unexpected asset url %q", got)
	}
	if got := c.AssetURL("https://cdn.example/a.jpg"); !strings.HasPrefix(got, "https://cdn") {
		t.Errorf("absolute url rewritten: %q", got)
	}
	if got := c.AssetURL(""); got != "" {
		t.Errorf("empty path rewritten: %q", got)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts":[` + strings.Repeat(`{"id":"p"},`, 20) + `{"id":"p"}]}`))
	})
	c.maxBody = 64

	var out map[string]any
	err := c.Get(context.Background(), "/posts", nil, &out)
	if !errors.Is(err, ErrBodyTooLarge) || !errors.Is(err, apperrors.ErrMalformedResponse) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if out != nil {
		t.Fatalf("nothing should be decoded, got %v", out)
	}
}

func TestReadBodyAtLimit(t *testing.T) {
	data, err := ReadBody(strings.NewReader("12345"), 5)
	if err != nil || string(data) != "12345" {
		t.Fatalf("got %q, %v", data, err)
	}
	if _, err := ReadBody(strings.NewReader("123456"), 5); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
}
