package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	types "github.com/issam-seghir/shark-chat-backend/internal/domain/chat"
	"github.com/issam-seghir/shark-chat-backend/internal/platform/logger"
	"github.com/issam-seghir/shark-chat-backend/internal/utils"
)

// maxUnfurlBody caps how much of a page is read when scraping metadata.
const maxUnfurlBody = 512 << 10

// LinkPreviewer resolves a URL into an embed. A nil embed with a nil
// error means the page yielded no usable preview (no title).
type LinkPreviewer interface {
	Preview(ctx context.Context, url string) (*types.Embed, error)
}

type linkPreviewer struct {
	client *http.Client
	log    *logger.Logger
}

func NewLinkPreviewer(baseLog *logger.Logger) LinkPreviewer {
	timeout := utils.GetEnvAsInt("UNFURL_TIMEOUT_SECONDS", 5, baseLog)
	return &linkPreviewer{
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:    baseLog.With("service", "LinkPreviewer"),
	}
}

func (s *linkPreviewer) Preview(ctx context.Context, url string) (*types.Embed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, nil
	}

	meta := scrapeMeta(io.LimitReader(resp.Body, maxUnfurlBody))
	if meta.title == "" {
		return nil, nil
	}
	embed := &types.Embed{URL: url, Title: meta.title}
	if meta.description != "" {
		d := meta.description
		embed.Description = &d
	}
	if meta.image != "" {
		img := meta.image
		embed.Image = &img
	}
	return embed, nil
}

type pageMeta struct {
	title       string
	description string
	image       string
	docTitle    string
}

// scrapeMeta walks the document head and collects open-graph tags,
// falling back to <title> text when og:title is absent.
func scrapeMeta(r io.Reader) pageMeta {
	var meta pageMeta
	z := html.NewTokenizer(r)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if meta.title == "" {
				meta.title = meta.docTitle
			}
			return meta
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "title":
				inTitle = true
			case "meta":
				var property, name, content string
				for _, a := range tok.Attr {
					switch a.Key {
					case "property":
						property = a.Val
					case "name":
						name = a.Val
					case "content":
						content = a.Val
					}
				}
				key := property
				if key == "" {
					key = name
				}
				switch key {
				case "og:title":
					meta.title = content
				case "og:description", "description":
					if meta.description == "" || key == "og:description" {
						meta.description = content
					}
				case "og:image":
					meta.image = content
				}
			case "body":
				// Everything we need lives in the head.
				if meta.title == "" {
					meta.title = meta.docTitle
				}
				return meta
			}
		case html.TextToken:
			if inTitle {
				meta.docTitle = strings.TrimSpace(string(z.Text()))
				inTitle = false
			}
		case html.EndTagToken:
			if tok := z.Token(); tok.Data == "title" {
				inTitle = false
			}
		}
	}
}
