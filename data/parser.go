package data

import (
	"bytes"
	"errors"
	"io"

	yaml "gopkg.in/yaml.v3"
)

// Parse decodes a YAML (or JSON, which is a subset of YAML) document into target. Unlike
// yaml.Unmarshal it rejects keys that target has no field for, so that a typo in a data file
// fails loudly instead of silently leaving a zero value.
func Parse(data []byte, target interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("document is empty")
		}
		return err
	}
	return nil
}
