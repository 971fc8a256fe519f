package config

import (
	"bytes"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

const generatedHeader = `# dotstow configuration
# Generated from the effective configuration. Values here override the
# built-in defaults; delete anything you do not want to pin.

`

// ToTOML renders the configuration as a TOML document
func (c *Config) ToTOML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return buf.Bytes(), nil
}
