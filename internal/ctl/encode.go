package ctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/vitrine/internal/domain/payload"
	"github.com/okian/vitrine/internal/domain/profile"
)

// DetectFormat picks the input format from a file name, falling back to
// sniffing the content: a leading '{' means JSON.
func DetectFormat(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}
	return FormatYAML
}

// ReadProfile reads a profile object in the given format. Keys go through
// the same alias matching as URL payloads.
func ReadProfile(r io.Reader, format string) (profile.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return profile.Record{}, fmt.Errorf("%w: %w", ErrInput, err)
	}
	switch format {
	case FormatJSON:
	case FormatYAML:
		if data, err = yamlToJSON(data); err != nil {
			return profile.Record{}, fmt.Errorf("%w: %w", ErrInput, err)
		}
	default:
		return profile.Record{}, fmt.Errorf("%w: %q", ErrFormat, format)
	}

	var rec profile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return profile.Record{}, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return rec, nil
}

// yamlToJSON converts a YAML document to JSON so the record's lenient JSON
// decoding applies unchanged.
func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Encode produces the payload for rec and, when cfg names a base URL, the
// page link for it.
func Encode(cfg *Config, rec profile.Record) (EncodeResult, error) {
	enc, err := payload.Encode(rec)
	if err != nil {
		return EncodeResult{}, err
	}
	res := EncodeResult{Payload: enc}
	if cfg.BaseURL == "" {
		return res, nil
	}
	base := strings.TrimRight(cfg.BaseURL, "/") + "/"
	if cfg.Skin != "" {
		base += "p/" + cfg.Skin
	}
	if res.URL, err = payload.Link(base, cfg.Param, rec); err != nil {
		return EncodeResult{}, err
	}
	return res, nil
}

// Decode parses a payload strictly. arg may be the payload itself or a page
// URL carrying it in cfg.Param.
func Decode(cfg *Config, arg string) (profile.Record, error) {
	raw := strings.TrimSpace(arg)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return profile.Record{}, fmt.Errorf("%w: %w", ErrInput, err)
		}
		param := cfg.Param
		if param == "" {
			param = payload.DefaultParam
		}
		raw = u.Query().Get(param)
		if raw == "" {
			return profile.Record{}, fmt.Errorf("%w: parameter %q is absent", ErrNoPayload, param)
		}
	}
	return payload.Parse(raw)
}
