package hashescrow

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"lukechampine.com/blake3"
)

// BucketName is where the escrows are stored.
const BucketName = "hashescrow"

// hashSize is the length of the sha256 and blake3 commitments.
const hashSize = 32

// EscrowState is the lifecycle stage of an escrow.
type EscrowState int32

const (
	// EscrowEmpty is the state of an identifier that was never locked.
	EscrowEmpty EscrowState = iota
	EscrowLocked
	EscrowReleased
	EscrowRefunded
)

func (s EscrowState) String() string {
	switch s {
	case EscrowEmpty:
		return "empty"
	case EscrowLocked:
		return "locked"
	case EscrowReleased:
		return "released"
	case EscrowRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Verifier is the rule matching a proof against the commitment.
type Verifier int32

const (
	// VerifyExact requires the proof to be the commitment itself.
	VerifyExact Verifier = iota
	// VerifySHA256 requires the sha256 digest of the proof.
	VerifySHA256
	// VerifyBlake3 requires the 256 bit blake3 digest of the proof.
	VerifyBlake3
)

func (v Verifier) String() string {
	switch v {
	case VerifyExact:
		return "exact"
	case VerifySHA256:
		return "sha256"
	case VerifyBlake3:
		return "blake3"
	default:
		return "unknown"
	}
}

// ParseVerifier returns the verifier of given name.
func ParseVerifier(name string) (Verifier, error) {
	for _, v := range []Verifier{VerifyExact, VerifySHA256, VerifyBlake3} {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, errors.ErrInput.Newf("unknown verifier %q", name)
}

// ValidateCommitment returns an error if the commitment cannot be matched
// by the verifier. Hash commitments are digests, exact ones are limited to
// maxLen bytes.
func (v Verifier) ValidateCommitment(commitment []byte, maxLen uint32) error {
	switch v {
	case VerifyExact:
		if len(commitment) == 0 {
			return errors.Wrap(errors.ErrEmpty, "commitment")
		}
		if uint64(len(commitment)) > uint64(maxLen) {
			return errors.Wrapf(errors.ErrInput, "commitment longer than %d bytes", maxLen)
		}
		return nil
	case VerifySHA256, VerifyBlake3:
		if len(commitment) != hashSize {
			return errors.Wrapf(errors.ErrInput, "%s commitment must be %d bytes", v, hashSize)
		}
		return nil
	default:
		return errors.ErrInput.Newf("unknown verifier %d", v)
	}
}

// Match returns true if proof opens the commitment. Comparison runs in
// constant time.
func (v Verifier) Match(commitment, proof []byte) bool {
	var got []byte
	switch v {
	case VerifyExact:
		got = proof
	case VerifySHA256:
		sum := sha256.Sum256(proof)
		got = sum[:]
	case VerifyBlake3:
		sum := blake3.Sum256(proof)
		got = sum[:]
	default:
		return false
	}
	return len(commitment) > 0 && subtle.ConstantTimeCompare(commitment, got) == 1
}

// Commit returns the commitment that proof opens under the verifier.
func (v Verifier) Commit(proof []byte) []byte {
	switch v {
	case VerifySHA256:
		sum := sha256.Sum256(proof)
		return sum[:]
	case VerifyBlake3:
		sum := blake3.Sum256(proof)
		return sum[:]
	default:
		return append([]byte(nil), proof...)
	}
}

// Escrow holds Amount on its custody Address until the commitment is
// opened or the depositor takes the funds back.
type Escrow struct {
	Depositor    custody.Address `json:"depositor"`
	Beneficiary  custody.Address `json:"beneficiary,omitempty"`
	Amount       coin.Amount     `json:"amount"`
	Commitment   []byte          `json:"commitment"`
	Verifier     Verifier        `json:"verifier"`
	RefundHeight int64           `json:"refund_height,omitempty"`
	State        EscrowState     `json:"state"`
	Address      custody.Address `json:"address"`
	LockedAt     int64           `json:"locked_at"`
	SettledAt    int64           `json:"settled_at,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate checks a stored escrow. Empty escrows are never stored.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", e.Depositor.Validate())
	if len(e.Beneficiary) > 0 {
		errs = errors.AppendField(errs, "Beneficiary", e.Beneficiary.Validate())
	}
	errs = errors.AppendField(errs, "Amount", e.Amount.Validate())
	errs = errors.AppendField(errs, "Commitment", e.Verifier.ValidateCommitment(e.Commitment, ^uint32(0)))
	errs = errors.AppendField(errs, "Address", e.Address.Validate())
	if e.RefundHeight < 0 {
		errs = errors.Append(errs, errors.Field("RefundHeight", errors.ErrInput, "negative"))
	}
	switch e.State {
	case EscrowLocked:
		if e.SettledAt != 0 {
			errs = errors.Append(errs, errors.Field("SettledAt", errors.ErrState, "locked escrow"))
		}
	case EscrowReleased:
		if len(e.Beneficiary) == 0 {
			errs = errors.Append(errs, errors.Field("Beneficiary", errors.ErrEmpty, "released escrow"))
		}
	case EscrowRefunded:
	default:
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "cannot store %s escrow", e.State))
	}
	return errs
}

// Condition returns the condition controlling the custody account of the
// escrow with given identifier.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("hashescrow", "escrow", id)
}

// NewBucket returns a bucket storing escrows by their identifier.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{})
}
