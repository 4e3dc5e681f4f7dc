package hashescrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const packageName = "hashescrow"

// DefaultMaxCommitmentLength is used when no configuration was provided in
// genesis.
const DefaultMaxCommitmentLength = 128

// Configuration limits the size of exact match commitments.
type Configuration struct {
	MaxCommitmentLength uint32 `json:"max_commitment_length"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if c.MaxCommitmentLength < hashSize {
		return errors.Field("MaxCommitmentLength", errors.ErrInput, "must be at least %d", hashSize)
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	conf := Configuration{MaxCommitmentLength: DefaultMaxCommitmentLength}
	if err := gconf.LoadOrDefault(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the configuration of this package found in genesis
// under conf.hashescrow.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, packageName, &conf)
}
