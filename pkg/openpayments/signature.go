package openpayments

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// signingTransport signs every outbound request with an HTTP message
// signature (RFC 9421) over the Ed25519 client key, and attaches a
// Content-Digest header (RFC 9530) when the request has a body. Open Payments
// servers authenticate the client by verifying this signature against the key
// published under the client's wallet address.
type signingTransport struct {
	base  http.RoundTripper
	keyID string
	key   ed25519.PrivateKey

	// now is swappable for tests.
	now func() time.Time
}

func newSigningTransport(base http.RoundTripper, keyID string, key ed25519.PrivateKey) *signingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &signingTransport{base: base, keyID: keyID, key: key, now: time.Now}
}

func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	signed := req.Clone(req.Context())

	components := []string{"@method", "@target-uri"}

	if req.Body != nil && req.Body != http.NoBody {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body for signing: %w", err)
		}
		digest := sha512.Sum512(body)
		signed.Header.Set("Content-Digest", fmt.Sprintf("sha-512=:%s:", base64.StdEncoding.EncodeToString(digest[:])))
		signed.Header.Set("Content-Length", fmt.Sprintf("%d", len(body)))
		signed.Body = io.NopCloser(bytes.NewReader(body))
		signed.ContentLength = int64(len(body))
		components = append(components, "content-digest", "content-length", "content-type")
	}

	if signed.Header.Get("Authorization") != "" {
		components = append(components, "authorization")
	}

	params := signatureParams(components, t.keyID, t.now().Unix())
	base := signatureBase(signed, components, params)
	sig := ed25519.Sign(t.key, []byte(base))

	signed.Header.Set("Signature-Input", "sig1="+params)
	signed.Header.Set("Signature", fmt.Sprintf("sig1=:%s:", base64.StdEncoding.EncodeToString(sig)))

	return t.base.RoundTrip(signed)
}

// signatureParams renders the serialized signature parameters, e.g.
// ("@method" "@target-uri");created=1700000000;keyid="...";alg="ed25519".
func signatureParams(components []string, keyID string, created int64) string {
	quoted := make([]string, len(components))
	for i, c := range components {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("(%s);created=%d;keyid=%q;alg=\"ed25519\"", strings.Join(quoted, " "), created, keyID)
}

// signatureBase builds the canonical string that is signed: one line per
// covered component, terminated by the @signature-params line.
func signatureBase(req *http.Request, components []string, params string) string {
	var b strings.Builder
	for _, c := range components {
		var value string
		switch c {
		case "@method":
			value = req.Method
		case "@target-uri":
			value = req.URL.String()
		default:
			value = strings.TrimSpace(req.Header.Get(c))
		}
		fmt.Fprintf(&b, "%q: %s\n", c, value)
	}
	fmt.Fprintf(&b, "%q: %s", "@signature-params", params)
	return b.String()
}
