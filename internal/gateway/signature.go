package gateway

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
)

var ErrSignatureMismatch = errors.New("invalid webhook signature")

// Gateway status vocabulary carried by notifications.
const (
	StatusSettlement = "settlement"
	StatusCancel     = "cancel"
	StatusExpire     = "expire"
	StatusFailure    = "failure"
	StatusPending    = "pending"
)

// Notification is the payment-status callback body. Only the signed fields
// plus the status are modeled; everything else the gateway sends is ignored.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
}

// Signature recomputes the keyed hash the gateway signs notifications with:
// sha512 hex over order_id + status_code + gross_amount + server key, in that
// field order.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify checks the notification's signature against the shared server key.
func (n Notification) Verify(serverKey string) error {
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}
