package httpclient

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gogs/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// latin1Labels are charsets servers fall back to when they do not know better.
// Declaring one of them is treated as "no real declaration".
var latin1Labels = map[string]struct{}{
	"iso-8859-1": {},
	"latin1":     {},
	"l1":         {},
	"us-ascii":   {},
}

// DecodeUTF8 decodes the body as UTF-8 regardless of any declaration.
// Invalid sequences become U+FFFD.
func DecodeUTF8(body []byte) (string, error) {
	out, err := unicode.UTF8.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}
	return string(out), nil
}

// DecodeHTML decodes an HTML body using the charset declared in contentType.
// A missing or ISO-8859-1 declaration is ignored and the apparent encoding
// is sniffed from the markup instead. It returns the text and the name of
// the encoding used.
func DecodeHTML(body []byte, contentType string) (string, string, error) {
	if declared := declaredCharset(contentType); declared != "" {
		if _, latin := latin1Labels[declared]; !latin {
			if enc, name := charset.Lookup(declared); enc != nil {
				return decodeWith(enc, name, body)
			}
		}
	}

	enc, name := apparentEncoding(body)
	return decodeWith(enc, name, body)
}

// apparentEncoding looks at BOMs and meta tags first, then falls back to
// statistical detection when the markup gives no hint.
func apparentEncoding(body []byte) (encoding.Encoding, string) {
	enc, name, certain := charset.DetermineEncoding(body, "text/html")
	if certain || name != "windows-1252" {
		return enc, name
	}

	res, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil || res == nil {
		return enc, name
	}
	if guessed, guessedName := charset.Lookup(res.Charset); guessed != nil {
		return guessed, guessedName
	}
	return enc, name
}

func decodeWith(enc encoding.Encoding, name string, body []byte) (string, string, error) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

func declaredCharset(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}
