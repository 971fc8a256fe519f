// Package structured provides machine-readable JSON and YAML output
package structured

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
)

// Encoding selects the document syntax
type Encoding string

const (
	JSON Encoding = "json"
	YAML Encoding = "yaml"
)

type encoder interface {
	Encode(v interface{}) error
}

// Renderer writes one document per call. Decisions are not streamed: they
// are part of the final result's plans.
type Renderer struct {
	output  io.Writer
	encoder encoder
}

// New creates a new renderer for the given encoding
func New(output io.Writer, encoding Encoding) (*Renderer, error) {
	switch encoding {
	case JSON:
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		return &Renderer{output: output, encoder: enc}, nil
	case YAML:
		return &Renderer{output: output, encoder: yamlDocuments{w: output}}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown encoding: %s", encoding)
	}
}

// yamlDocuments writes every value as its own flushed document
type yamlDocuments struct {
	w io.Writer
}

func (y yamlDocuments) Encode(v interface{}) error {
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// RenderDecision is a no-op
func (r *Renderer) RenderDecision(linker.Decision) error {
	return nil
}

// RenderResult encodes any result type
func (r *Renderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError encodes an error with its code
func (r *Renderer) RenderError(err error) error {
	obj := map[string]string{"error": err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		obj["code"] = string(code)
	}
	return r.encoder.Encode(obj)
}

// RenderMessage encodes a simple message
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
