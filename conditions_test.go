package custody_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := custody.Address(b)

		So(addr.String(), ShouldNotEqual, fmt.Sprintf("%X", addr))
	})

	Convey("test hexademical condition printing", t, func() {
		cond := custody.NewCondition("timelock", "wallet", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldEqual, fmt.Sprintf("timelock/wallet/%X", []byte("ABCD123456LHB")))
	})

	Convey("custody accounts are derived from conditions", t, func() {
		a := custody.NewCondition("timelock", "wallet", []byte("w1")).Address()
		b := custody.NewCondition("hashescrow", "escrow", []byte("w1")).Address()

		So(a.Validate(), ShouldBeNil)
		So(a.Equals(b), ShouldBeFalse)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := custody.NewCondition("foo", "bar", []byte("conditiondata")).Address()
	b32, err := addr.Bech32String()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%X"`, []byte(addr)),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%x"`, []byte(addr)),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"bech32:%s"`, b32),
			wantAddr: addr,
		},
		"hex address too short": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestConditionJSON(t *testing.T) {
	cond := custody.NewCondition("multisig", "vault", []byte{0xde, 0xad})
	raw, err := json.Marshal(cond)
	require.NoError(t, err)
	assert.Equal(t, `"multisig/vault/DEAD"`, string(raw))

	var got custody.Condition
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, cond.Equals(got))
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond    custody.Condition
		wantErr *errors.Error
	}{
		"valid": {
			cond: custody.NewCondition("timelock", "wallet", []byte("x")),
		},
		"extension too short": {
			cond:    custody.NewCondition("a", "wallet", []byte("x")),
			wantErr: errors.ErrInput,
		},
		"no data": {
			cond:    custody.Condition("timelock/wallet/"),
			wantErr: errors.ErrInput,
		},
		"data with newline": {
			cond: custody.NewCondition("timelock", "wallet", []byte("a\nb")),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.cond.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestAddressSet(t *testing.T) {
	a := custody.NewAddress([]byte("a"))
	b := custody.NewAddress([]byte("b"))
	c := custody.NewAddress([]byte("c"))

	var set custody.AddressSet
	assert.True(t, set.Add(c))
	assert.True(t, set.Add(a))
	assert.False(t, set.Add(c), "duplicate must not be stored")
	assert.True(t, set.Add(b))
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(b))
	assert.False(t, set.Contains(custody.NewAddress([]byte("d"))))
	require.NoError(t, set.Validate())

	_, err := custody.NewAddressSet(a, b, a)
	assert.True(t, errors.ErrDuplicate.Is(err))

	_, err = custody.NewAddressSet(a, custody.Address("short"))
	assert.True(t, errors.ErrInput.Is(err))

	// Hashed addresses have no predictable order, reverse the sorted set.
	reversed := custody.AddressSet{set[2], set[1], set[0]}
	assert.True(t, errors.ErrDuplicate.Is(reversed.Validate()))
	repeated := custody.AddressSet{set[0], set[0]}
	assert.True(t, errors.ErrDuplicate.Is(repeated.Validate()))
}
