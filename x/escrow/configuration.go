package escrow

import (
	"encoding/json"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/errors"
	"github.com/middleman-net/middleman/gconf"
)

// Configuration is the escrow extension runtime setup. It bounds the
// timeout that create messages may request.
type Configuration struct {
	MinTimeout middleman.UnixDuration `json:"min_timeout"`
	MaxTimeout middleman.UnixDuration `json:"max_timeout"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }

func (c *Configuration) Validate() error {
	var errs error
	if c.MinTimeout <= 0 {
		errs = errors.AppendField(errs, "MinTimeout", errors.ErrInput)
	}
	if c.MaxTimeout <= 0 {
		errs = errors.AppendField(errs, "MaxTimeout", errors.ErrInput)
	}
	if c.MinTimeout > 0 && c.MaxTimeout > 0 && c.MaxTimeout < c.MinTimeout {
		errs = errors.AppendField(errs, "MaxTimeout", errors.Wrap(errors.ErrInput, "below minimum"))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "escrow", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}
