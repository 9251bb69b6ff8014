package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/issam-seghir/shark-chat-backend/internal/data/repos/testutil"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPreviewReadsOpenGraphTags(t *testing.T) {
	srv := servePage(t, `<!doctype html><html><head>
		<meta property="og:title" content="Shark Chat">
		<meta property="og:description" content="A chat app">
		<meta property="og:image" content="https://cdn/banner.png">
		<title>ignored</title>
	</head><body>hi</body></html>`)

	p := NewLinkPreviewer(testutil.Logger(t))
	embed, err := p.Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if embed == nil {
		t.Fatalf("embed is nil")
	}
	if embed.Title != "Shark Chat" {
		t.Fatalf("title = %q", embed.Title)
	}
	if embed.Description == nil || *embed.Description != "A chat app" {
		t.Fatalf("description = %v", embed.Description)
	}
	if embed.Image == nil || *embed.Image != "https://cdn/banner.png" {
		t.Fatalf("image = %v", embed.Image)
	}
	if embed.URL != srv.URL {
		t.Fatalf("url = %q", embed.URL)
	}
}

func TestPreviewFallsBackToTitleTag(t *testing.T) {
	srv := servePage(t, `<html><head><title>Plain Page</title></head><body></body></html>`)

	p := NewLinkPreviewer(testutil.Logger(t))
	embed, err := p.Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if embed == nil || embed.Title != "Plain Page" {
		t.Fatalf("embed = %+v", embed)
	}
}

func TestPreviewNoTitleNoEmbed(t *testing.T) {
	srv := servePage(t, `<html><head><meta property="og:description" content="desc"></head></html>`)

	p := NewLinkPreviewer(testutil.Logger(t))
	embed, err := p.Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if embed != nil {
		t.Fatalf("embed = %+v, want nil", embed)
	}
}

func TestPreviewSkipsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"nope"}`))
	}))
	t.Cleanup(srv.Close)

	p := NewLinkPreviewer(testutil.Logger(t))
	embed, err := p.Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if embed != nil {
		t.Fatalf("embed = %+v, want nil", embed)
	}
}
