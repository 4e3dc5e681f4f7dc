package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Errors are built once so that they can be compared by identity.
	var (
		badVault     = Field("VaultID", ErrInput, "invalid identifier")
		zeroAmount   = Field("Amount", ErrAmount, "zero amount")
		negAmount    = Field("Amount", ErrInput, "negative")
		noRecipient  = Field("Recipient", ErrEmpty, "required")
		actionErrors = Field("Action", Append(zeroAmount, Append(noRecipient, ErrState)), "invalid action")
		proposal     = Append(badVault, actionErrors)

		lateUnlock   = Field("UnlockHeight", ErrPastUnlockHeight, "")
		doubleUnlock = Field("UnlockHeight", lateUnlock, "wallet")
	)

	cases := map[string]struct {
		err   error
		field string
		want  []error
	}{
		"single field": {
			err:   badVault,
			field: "VaultID",
			want:  []error{badVault},
		},
		"two errors of the same field": {
			err:   Append(zeroAmount, negAmount),
			field: "Amount",
			want:  []error{zeroAmount, negAmount},
		},
		"nested message is returned as a whole": {
			err:   proposal,
			field: "Action",
			want:  []error{actionErrors},
		},
		"nested field is found": {
			err:   proposal,
			field: "Recipient",
			want:  []error{noRecipient},
		},
		"field behind wraps": {
			err:   Wrap(Wrap(proposal, "load msg"), "invalid message"),
			field: "Amount",
			want:  []error{zeroAmount},
		},
		"same field twice returns the outermost": {
			err:   doubleUnlock,
			field: "UnlockHeight",
			want:  []error{doubleUnlock},
		},
		"field inside another field": {
			err:   Field("Wallet", lateUnlock, ""),
			field: "UnlockHeight",
			want:  []error{lateUnlock},
		},
		"unknown field": {
			err:   Wrap(proposal, "outer"),
			field: "Members",
			want:  nil,
		},
		"plain error": {
			err:   ErrUnauthorized,
			field: "VaultID",
			want:  nil,
		},
		"nil error": {
			err:   nil,
			field: "VaultID",
			want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.err, tc.field)
			if !reflect.DeepEqual(tc.want, got) {
				t.Logf("want: %#v", tc.want)
				t.Logf(" got: %#v", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestFields(t *testing.T) {
	errs := AppendField(nil, "EscrowID", ErrInput)
	errs = AppendField(errs, "Commitment", Field("Verifier", ErrInput, ""))
	errs = AppendField(errs, "Amount", nil)
	errs = AppendField(errs, "EscrowID", ErrEmpty)

	got := Fields(Wrap(errs, "invalid message"))
	if want := []string{"EscrowID", "Commitment"}; !reflect.DeepEqual(want, got) {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got := Fields(ErrInput); got != nil {
		t.Fatalf("want no fields, got %q", got)
	}
	if got := Fields(nil); got != nil {
		t.Fatalf("want no fields, got %q", got)
	}
}

func TestFieldMessage(t *testing.T) {
	err := Field("RefundHeight", ErrInput, "must be after %d", 7)
	if !ErrInput.Is(err) {
		t.Fatal("field error must keep its cause")
	}
	if want := `field "RefundHeight": must be after 7: invalid input`; err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
	if Field("RefundHeight", nil, "ignored") != nil {
		t.Fatal("nil error must stay nil")
	}
}
