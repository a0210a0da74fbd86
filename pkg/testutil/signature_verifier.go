package testutil

import "context"

// MockSignatureVerifier accepts every signature unless VerifyFunc is set.
type MockSignatureVerifier struct {
	VerifyFunc func(ctx context.Context, signer string, message []byte, signature string) (bool, error)
}

func (m *MockSignatureVerifier) Verify(
	ctx context.Context, signer string, message []byte, signature string,
) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, signer, message, signature)
	}

	return true, nil
}
