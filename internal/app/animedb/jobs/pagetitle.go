package jobs

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// pageTitle pulls the <title> text out of an HTML document. Returns ""
// when the document has no title or cannot be parsed.
func pageTitle(data []byte) string {
	tkn := html.NewTokenizer(bytes.NewReader(data))
	inTitle := false
	for {
		switch tkn.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if tkn.Token().Data == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				if t := strings.TrimSpace(tkn.Token().Data); t != "" {
					return t
				}
			}
		case html.EndTagToken:
			if tkn.Token().Data == "title" {
				return ""
			}
		}
	}
}

// looksLikeHTML sniffs the first chunk of a body so binary responses
// (posters, video segments) skip the tokenizer.
func looksLikeHTML(body []byte) bool {
	head := body
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype html"))
}
