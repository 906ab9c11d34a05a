package requests

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Get fetches url with a browser-like header set. A nil cli falls back to
// the default fasthttp client. The status code is returned for any response
// the server produced; err is set only when the request itself failed.
func Get(cli *fasthttp.Client, url string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.SetUserAgent(userAgent)
	req.SetTimeout(1 * time.Minute)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if cli != nil {
		err = cli.Do(req, resp)
	} else {
		err = fasthttp.Do(req, resp)
	}
	if err != nil {
		fmt.Printf("Client get failed: %s url: %s\n", err, url)
		return 0, nil, err
	}

	contentEncoding := resp.Header.Peek("Content-Encoding")
	var body []byte
	if bytes.EqualFold(contentEncoding, []byte("gzip")) {
		body, err = resp.BodyGunzip()
		if err != nil {
			return resp.StatusCode(), nil, err
		}
	} else {
		// resp's buffer goes back to the pool on release.
		body = append([]byte(nil), resp.Body()...)
	}
	return resp.StatusCode(), body, nil
}

// Post sends body to url. Any response other than 200 comes back as an error.
func Post(url string, body []byte, headers map[string]string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod("POST")
	req.SetBody(body)
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			req.Header.SetContentType(v)
			continue
		}
		req.Header.Set(k, v)
	}
	req.SetTimeout(1 * time.Minute)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := fasthttp.Do(req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode())
	}
	return append([]byte(nil), resp.Body()...), nil
}
