package fetcher

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// decodeBody undoes Content-Encoding. Stacked encodings are removed in
// reverse order of application.
func decodeBody(body []byte, contentEncoding string) ([]byte, error) {
	if len(body) == 0 || strings.TrimSpace(contentEncoding) == "" {
		return body, nil
	}

	codings := strings.Split(contentEncoding, ",")
	for i := len(codings) - 1; i >= 0; i-- {
		coding := strings.ToLower(strings.TrimSpace(codings[i]))

		var err error
		switch coding {
		case "", "identity":
			continue
		case "gzip", "x-gzip":
			body, err = decompressGzip(body)
		case "deflate":
			body, err = decompressDeflate(body)
		case "br":
			body, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		default:
			return nil, fmt.Errorf("unsupported content encoding %q", coding)
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", coding, err)
		}
	}

	return body, nil
}

func decompressGzip(body []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// deflate is meant to be zlib-wrapped, but some servers send raw DEFLATE.
func decompressDeflate(body []byte) ([]byte, error) {
	if reader, err := zlib.NewReader(bytes.NewReader(body)); err == nil {
		defer reader.Close()
		return io.ReadAll(reader)
	}

	reader := flate.NewReader(bytes.NewReader(body))
	defer reader.Close()

	return io.ReadAll(reader)
}
