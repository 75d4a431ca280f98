package escrow

import (
	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/gconf"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

var _ middleman.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial escrow configuration and save it in
// the database.
func (Initializer) FromGenesis(opts middleman.Options, db middleman.KVStore) error {
	return gconf.InitConfig(db, opts, "escrow", &Configuration{})
}
