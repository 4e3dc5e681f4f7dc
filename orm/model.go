package orm

// Model is implemented by any entity that can be stored using ModelBucket.
//
// The binary representation is produced by the custody codec, so a model is
// any plain struct with exported fields. Validate is called before every
// write.
type Model interface {
	Validate() error
}
