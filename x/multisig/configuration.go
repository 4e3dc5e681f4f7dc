package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const packageName = "multisig"

// DefaultMaxMembers is used when no configuration was provided in genesis.
const DefaultMaxMembers = 32

// Configuration limits the vaults that can be started.
type Configuration struct {
	MaxMembers uint32 `json:"max_members"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.MaxMembers == 0 {
		return errors.Field("MaxMembers", errors.ErrInput, "must be positive")
	}
	return nil
}

// loadConf returns the stored configuration or the defaults.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	conf := Configuration{MaxMembers: DefaultMaxMembers}
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the configuration of this package found in genesis
// under conf.multisig.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, packageName, &conf)
}
