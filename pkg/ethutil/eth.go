package ethutil

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func IsAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NormalizeAddress returns the checksummed form of a hex address. Accounts are
// stored in this form so the same wallet never appears under two spellings.
func NormalizeAddress(s string) string {
	return common.HexToAddress(s).Hex()
}

// IsHash reports whether s is a 0x prefixed 32-byte hex string.
func IsHash(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}

	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}

// RecoverPersonalSigner recovers the address which signed message with the
// personal_sign (EIP-191) scheme.
func RecoverPersonalSigner(message []byte, signature string) (common.Address, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, err
	}

	if len(sig) != ethcrypto.SignatureLength {
		return common.Address{}, errors.New("invalid signature length")
	}

	if sig[ethcrypto.RecoveryIDOffset] == 27 || sig[ethcrypto.RecoveryIDOffset] == 28 {
		sig[ethcrypto.RecoveryIDOffset] -= 27 // Transform yellow paper V from 27/28 to 0/1
	}

	recovered, err := ethcrypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, err
	}

	return ethcrypto.PubkeyToAddress(*recovered), nil
}

// IsSignedBy reports whether signature is a personal_sign signature of
// message by address.
func IsSignedBy(address string, message []byte, signature string) (bool, error) {
	recovered, err := RecoverPersonalSigner(message, signature)
	if err != nil {
		return false, err
	}

	return bytes.Equal(recovered.Bytes(), common.HexToAddress(address).Bytes()), nil
}
