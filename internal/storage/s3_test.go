package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedPut struct {
	path        string
	contentType string
	source      string
}

func newS3TestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedPut) {
	t.Helper()
	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			source:      r.Header.Get("X-Amz-Meta-Source-Name"),
		})
		mu.Unlock()
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &puts
}

func newTestS3Client(t *testing.T, endpoint string) *S3Client {
	t.Helper()
	client, err := NewS3Client(context.Background(), S3Config{
		Region:    "ca-central-1",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	return client
}

func TestS3Client_Put(t *testing.T) {
	srv, puts := newS3TestServer(t, http.StatusOK, "")
	client := newTestS3Client(t, srv.URL)

	body := `{"a":1}`
	err := client.Put(context.Background(), "b", "p/t/p/t_20250312070405.json", strings.NewReader(body), int64(len(body)), PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"source-name": "nse"},
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if len(*puts) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*puts))
	}
	got := (*puts)[0]
	if got.path != "/b/p/t/p/t_20250312070405.json" {
		t.Fatalf("unexpected path %s", got.path)
	}
	if got.contentType != "application/json" {
		t.Fatalf("unexpected content type %s", got.contentType)
	}
	if got.source != "nse" {
		t.Fatalf("unexpected source metadata %q", got.source)
	}
}

func TestS3Client_Put_AccessDenied(t *testing.T) {
	srv, _ := newS3TestServer(t, http.StatusForbidden,
		`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
	client := newTestS3Client(t, srv.URL)

	err := client.Put(context.Background(), "b", "k", strings.NewReader("x"), 1, PutOptions{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if KindOf(err) != KindPermissionDenied {
		t.Fatalf("expected %s, got %v", KindPermissionDenied, err)
	}
}
