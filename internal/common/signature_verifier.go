package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/rafflefi/backend/pkg/ethutil"
	"github.com/rafflefi/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
)

type SignatureVerifier interface {
	// Verify reports whether signature is a valid signature of message by
	// signer. An error means the verifier itself could not run.
	Verify(ctx context.Context, signer string, message []byte, signature string) (bool, error)
}

type ethSignatureVerifier struct{}

func NewEthSignatureVerifier() *ethSignatureVerifier {
	return &ethSignatureVerifier{}
}

func (v *ethSignatureVerifier) Verify(
	ctx context.Context, signer string, message []byte, signature string,
) (bool, error) {
	ok, err := ethutil.IsSignedBy(signer, message, signature)
	if err != nil {
		// A malformed signature is a wrong signature, not a broken verifier.
		xcontext.Logger(ctx).Debugf("Cannot recover signer: %v", err)
		return false, nil
	}

	return ok, nil
}

// ListingMessage is the canonical message a seller signs to list a ticket.
func ListingMessage(
	chainID int64,
	raffleID, ticketID uint64,
	price decimal.Decimal,
	currency, seller string,
) []byte {
	return []byte(fmt.Sprintf(
		"RaffleFi listing\nchain: %d\nraffle: %d\nticket: %d\nprice: %s\ncurrency: %s\nseller: %s",
		chainID, raffleID, ticketID, price.String(), strings.ToLower(currency), strings.ToLower(seller),
	))
}
