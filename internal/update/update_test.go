package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "MindTask-App" {
			t.Errorf("User-Agent = %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck(t *testing.T) {
	const release = `{"tag_name":"v1.1.0","body":"* faster","html_url":"https://example.com/r/1.1.0"}`
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    bool
	}{
		{"newer tag", http.StatusOK, release, "1.0.0", true},
		{"same tag", http.StatusOK, release, "1.1.0", false},
		{"same tag with v", http.StatusOK, release, "v1.1.0", false},
		{"server error", http.StatusInternalServerError, release, "1.0.0", false},
		{"not json", http.StatusOK, "<html>", "1.0.0", false},
		{"no tag", http.StatusOK, `{}`, "1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			c := New(srv.URL, "MindTask-App", tt.current, time.Second, nil)
			rel, ok := c.Check(context.Background())
			if ok != tt.want {
				t.Fatalf("ok = %v, want %v", ok, tt.want)
			}
			if ok && (rel.Tag != "v1.1.0" || rel.URL != "https://example.com/r/1.1.0" || rel.Changelog != "* faster") {
				t.Fatalf("release = %+v", rel)
			}
		})
	}
}

func TestCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, "MindTask-App", "1.0.0", time.Second, nil)
	if _, ok := c.Check(context.Background()); ok {
		t.Fatalf("unreachable endpoint reported an update")
	}
}

func TestOpenURLSuppressed(t *testing.T) {
	t.Setenv("MINDTASK_NO_BROWSER", "1")
	if err := OpenURL("https://example.com"); err != nil {
		t.Fatal(err)
	}
}
