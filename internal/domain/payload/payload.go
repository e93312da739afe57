// Package payload turns the encoded query-string payload into a profile
// record and back.
//
// Decoding fails closed: any problem with the parameter yields the default
// record and a single warning, never an error for the caller.
package payload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/vitrine/internal/domain/profile"
	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// DefaultParam is the query parameter that carries the payload.
const DefaultParam = "data"

// Decoder reads the payload parameter of a query string.
type Decoder struct {
	param    string
	fallback func() profile.Record
	logger   logger.Logger
}

// NewDecoder builds a Decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		param:    DefaultParam,
		fallback: profile.Default,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logger.OrGlobal(d.logger).Named("payload")
	return d
}

// Param returns the query parameter name the decoder reads.
func (d *Decoder) Param() string { return d.param }

// Decode parses a raw query string (without the leading '?') and returns
// the decoded record or the default record.
func (d *Decoder) Decode(ctx context.Context, rawQuery string) profile.Record {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil && values.Get(d.param) == "" {
		// ParseQuery keeps the pairs it could read; only give up when ours is gone.
		d.fail(ctx, fmt.Errorf("%w: %w", ErrQuery, err))
		return d.fallback()
	}
	return d.DecodeValues(ctx, values)
}

// DecodeValues is Decode for already-parsed query values.
func (d *Decoder) DecodeValues(ctx context.Context, values url.Values) profile.Record {
	raw := values.Get(d.param)
	if strings.TrimSpace(raw) == "" {
		d.logger.Debug(ctx, "no payload; preview mode with default record", logger.String("param", d.param))
		metrics.RecordPayloadDecode(metrics.DecodePreview)
		return d.fallback()
	}

	rec, err := Parse(raw)
	if err != nil {
		d.fail(ctx, err)
		return d.fallback()
	}
	metrics.RecordPayloadDecode(metrics.DecodeOK)
	return rec
}

func (d *Decoder) fail(ctx context.Context, err error) {
	d.logger.Warn(ctx, "payload decode failed; using default record", logger.Error(err))
	metrics.RecordPayloadDecode(metrics.DecodeFailed)
}

// Parse decodes one payload value strictly, reporting why it failed.
func Parse(raw string) (profile.Record, error) {
	data, err := decodeBase64(raw)
	if err != nil {
		return profile.Record{}, fmt.Errorf("%w: %w: %w", ErrMalformedPayload, ErrBase64, err)
	}

	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		kind := ErrJSON
		if isNotObject(data) {
			kind = ErrNotObject
		}
		return profile.Record{}, fmt.Errorf("%w: %w: %w", ErrMalformedPayload, kind, err)
	}
	return rec, nil
}

// decodeBase64 is forgiving in the same ways browsers are: ASCII whitespace
// is ignored, padding is optional and both alphabets are accepted. Spaces
// are read back as '+' because form decoding turns a literal '+' into one.
func decodeBase64(raw string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case '-':
			b.WriteByte('+')
		case '_':
			b.WriteByte('/')
		case ' ':
			b.WriteByte('+')
		case '\t', '\n', '\r', '\f':
		case '=':
		default:
			b.WriteRune(r)
		}
	}
	return base64.RawStdEncoding.DecodeString(b.String())
}

func isNotObject(data []byte) bool {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	_, ok := v.(map[string]any)
	return !ok
}

// Encode serialises a record into the URL-safe, unpadded payload form.
func Encode(rec profile.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Link builds a shareable page URL for rec on top of base, replacing any
// existing value of param.
func Link(base, param string, rec profile.Record) (string, error) {
	enc, err := Encode(rec)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if param == "" {
		param = DefaultParam
	}
	q := u.Query()
	q.Set(param, enc)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
