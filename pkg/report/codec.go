package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Decode reads a report in the given format.
func Decode(r io.Reader, format Format) (*Report, error) {
	var rep Report
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&rep)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&rep)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&rep)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", format, err)
	}

	if err := rep.validate(); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Encode writes rep in the given format. Version is filled in when unset.
func Encode(w io.Writer, rep *Report, format Format) error {
	out := *rep
	if out.Version == 0 {
		out.Version = CurrentVersion
	}

	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(&out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(&out); err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(&out)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s report: %w", format, err)
	}
	return nil
}
