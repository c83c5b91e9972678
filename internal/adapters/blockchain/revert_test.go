package blockchain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/blockchain"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain"
)

type dataError struct {
	msg  string
	data any
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorCode() int         { return 3 }
func (e *dataError) ErrorData() interface{} { return e.data }

const fundMeErrors = `[{"type":"error","name":"FundMe__NotOwner","inputs":[]}]`

func errorStringData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestDecodeRevert(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(fundMeErrors))
	require.NoError(t, err)
	notOwnerID := parsed.Errors["FundMe__NotOwner"].ID
	notOwner := hexutil.Encode(notOwnerID[:4])

	tests := []struct {
		name      string
		err       error
		reason    string
		errorName string
		isRevert  bool
	}{
		{
			name:     "error string",
			err:      &dataError{msg: "execution reverted", data: errorStringData(t, "You need to spend more ETH!")},
			reason:   "You need to spend more ETH!",
			isRevert: true,
		},
		{
			name:      "custom error",
			err:       &dataError{msg: "execution reverted", data: notOwner},
			errorName: "FundMe__NotOwner",
			isRevert:  true,
		},
		{
			name:     "empty data",
			err:      &dataError{msg: "execution reverted", data: "0x"},
			isRevert: true,
		},
		{
			name:     "message only",
			err:      errors.New("failed: execution reverted: boom"),
			reason:   "boom",
			isRevert: true,
		},
		{
			name: "not a revert",
			err:  errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := blockchain.DecodeRevert(tt.err, &parsed)
			revert, ok := domain.AsRevert(decoded)
			require.Equal(t, tt.isRevert, ok)
			if !ok {
				assert.Equal(t, tt.err, decoded)
				return
			}
			assert.Equal(t, tt.reason, revert.Reason)
			assert.Equal(t, tt.errorName, revert.ErrorName)
			assert.ErrorIs(t, decoded, tt.err)
		})
	}

	assert.NoError(t, blockchain.DecodeRevert(nil, &parsed))
}
