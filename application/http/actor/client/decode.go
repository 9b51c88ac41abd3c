package client

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

type decoder func(raw []byte) (string, error)

func newDecoder(charset string) (decoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return decodeUTF8, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, errors.Wrapf(err, "charset %q", charset)
	}

	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return decodeUTF8, nil
	}

	return func(raw []byte) (string, error) {
		text, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", errors.Wrapf(err, "decoding %s", charset)
		}
		return string(text), nil
	}, nil
}

func decodeUTF8(raw []byte) (string, error) {
	text, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", errors.Wrap(err, "validating utf-8")
	}
	return string(text), nil
}
