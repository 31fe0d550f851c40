package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignatureConcatenationOrder(t *testing.T) {
	// order_id + status_code + gross_amount + server key, sha512 hex
	sum := sha512.Sum512([]byte("ORDER-1-1700000000" + "200" + "60000.00" + "server-key"))
	want := hex.EncodeToString(sum[:])

	require.Equal(t, want, Signature("ORDER-1-1700000000", "200", "60000.00", "server-key"))
}

func TestVerify(t *testing.T) {
	n := Notification{
		OrderID:           "ORDER-abc-1700000000",
		StatusCode:        "200",
		GrossAmount:       "60000.00",
		TransactionStatus: StatusSettlement,
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, "server-key")

	require.NoError(t, n.Verify("server-key"))
	require.ErrorIs(t, n.Verify("other-key"), ErrSignatureMismatch)

	tampered := n
	tampered.GrossAmount = "1.00"
	require.ErrorIs(t, tampered.Verify("server-key"), ErrSignatureMismatch)

	unsigned := n
	unsigned.SignatureKey = ""
	require.ErrorIs(t, unsigned.Verify("server-key"), ErrSignatureMismatch)
}
