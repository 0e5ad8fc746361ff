package portplan

import (
	_ "embed"

	"github.com/usnistgov/portplan/core/yamlflag"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed config.schema.json
var configSchemaJSON []byte

// ConfigSchema is the JSON schema of Config.
var ConfigSchema = gojsonschema.NewBytesLoader(configSchemaJSON)

// Validate checks cfg against ConfigSchema.
// Zero-valued optional fields are omitted and take their defaults in Plan.
func (cfg Config) Validate() error {
	if e := yamlflag.Validate(cfg, ConfigSchema); e != nil {
		return NewError(MalformedInput, "configuration rejected").wrap(e)
	}
	return nil
}
