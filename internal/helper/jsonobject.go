package helper

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// WriteObject encodes keys and their values as a JSON object, keeping the
// order in which the keys are given. value is called with the key's index.
func WriteObject(keys []string, value func(i int) (any, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := value(i)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode %q", key)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ReadObject walks the members of a JSON object in document order. The
// callback must consume exactly one value from dec.
func ReadObject(data []byte, member func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Errorf("expected object key, got %v", tok)
		}
		if err := member(key, dec); err != nil {
			return errors.Wrapf(err, "failed to decode %q", key)
		}
	}

	_, err = dec.Token()
	return err
}
