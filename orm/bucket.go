package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,12}$`).MatchString

// ModelBucket stores models of a single type in a prefixed subspace of the
// database.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into the
	// database, model is validated.
	Put(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// Iterate calls fn for every entity whose primary key starts with given
	// prefix, in ascending key order. The destination model is reused for
	// each call. Iteration stops at the first error returned by fn.
	Iterate(db custody.ReadOnlyKVStore, prefix []byte, dest Model, fn func(key []byte) error) error

	// Register registers this bucket as a query handler under given path.
	Register(path string, r custody.QueryRouter)

	// DBKey returns the full key under which an entity is stored.
	DBKey(key []byte) []byte
}

// NewModelBucket returns a ModelBucket instance storing models of the type
// of given prototype. Name is used to prefix all keys: <name>:<key>
func NewModelBucket(name string, proto Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model prototype must be a pointer, got %T", proto))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  t,
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) DBKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) checkType(dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	return nil
}

func (mb *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", mb.name, key)
	}
	reset(dest)
	if err := custody.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "cannot load %s %q", mb.name, key)
	}
	return nil
}

// reset zeroes the model so that no value survives from a previous load.
func reset(m Model) {
	v := reflect.ValueOf(m).Elem()
	v.Set(reflect.Zero(v.Type()))
}

func (mb *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %q", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := mb.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := custody.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	// A model with all fields zero serializes to nothing, which must
	// still be distinguishable from a missing entity.
	if raw == nil {
		raw = []byte{}
	}
	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db custody.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.DBKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) Iterate(db custody.ReadOnlyKVStore, prefix []byte, dest Model, fn func(key []byte) error) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	start, end := prefixRange(mb.DBKey(prefix))
	it, err := db.Iterator(start, end)
	if err != nil {
		return errors.Wrap(err, "cannot create iterator")
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		if err != nil {
			if errors.ErrIteratorDone.Is(err) {
				return nil
			}
			return err
		}
		reset(dest)
		if err := custody.Unmarshal(value, dest); err != nil {
			return errors.Wrapf(err, "cannot load %s %q", mb.name, key)
		}
		if err := fn(key[len(mb.prefix):]); err != nil {
			return err
		}
	}
}

func (mb *modelBucket) Register(path string, r custody.QueryRouter) {
	if path == "" {
		path = "/" + mb.name
	}
	r.Register(path, mb)
}

// Query handles queries from the QueryRouter
func (mb *modelBucket) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		key := mb.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(key, value)}, nil
	case custody.PrefixQueryMod:
		start, end := prefixRange(mb.DBKey(data))
		it, err := db.Iterator(start, end)
		if err != nil {
			return nil, err
		}
		return consumeIterator(it)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
