// Package gateway talks to the payment provider that collects subscription fees.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"pgms/internal/logger"
	"pgms/internal/money"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrUnavailable     = errors.New("payment gateway unavailable")
	ErrInvalidResponse = errors.New("payment gateway returned an invalid order")
)

type Order struct {
	ID       string      `json:"order_id"`
	Amount   money.Money `json:"amount"`
	Currency string      `json:"currency"`
	Receipt  string      `json:"receipt"`
	KeyID    string      `json:"key_id"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, planName string, amount money.Money) (*Order, error)
	Verify(orderID, paymentID, signature string) bool
}

// orderCreator is the slice of the Razorpay client used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	orders   orderCreator
	keyID    string
	secret   string
	currency string
	breaker  *gobreaker.CircuitBreaker[map[string]interface{}]
}

func NewRazorpay(keyID, keySecret, currency string) *Razorpay {
	client := razorpay.NewClient(keyID, keySecret)
	return newRazorpay(client.Order, keyID, keySecret, currency)
}

func newRazorpay(orders orderCreator, keyID, keySecret, currency string) *Razorpay {
	cb := gobreaker.NewCircuitBreaker[map[string]interface{}](gobreaker.Settings{
		Name:        "razorpay-orders",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Razorpay{
		orders:   orders,
		keyID:    keyID,
		secret:   keySecret,
		currency: currency,
		breaker:  cb,
	}
}

// CreateOrder opens a gateway order for amount, which is sent in paise.
func (r *Razorpay) CreateOrder(ctx context.Context, planName string, amount money.Money) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	receipt := "sub_" + uuid.NewString()[:8]
	payload := map[string]interface{}{
		"amount":   int64(amount),
		"currency": r.currency,
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"plan": planName,
		},
	}

	resp, err := r.breaker.Execute(func() (map[string]interface{}, error) {
		return r.orders.Create(payload, nil)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrUnavailable
		}
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	id, _ := resp["id"].(string)
	if id == "" {
		return nil, ErrInvalidResponse
	}

	order := &Order{
		ID:       id,
		Amount:   amount,
		Currency: r.currency,
		Receipt:  receipt,
		KeyID:    r.keyID,
	}
	if v, ok := resp["amount"].(float64); ok {
		order.Amount = money.Money(int64(v))
	}
	if v, ok := resp["currency"].(string); ok && v != "" {
		order.Currency = v
	}
	return order, nil
}

// Verify checks the checkout signature: hex HMAC-SHA256 of "orderID|paymentID".
func (r *Razorpay) Verify(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, r.secret)
}

func VerifySignature(orderID, paymentID, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if orderID == "" || paymentID == "" || sig == "" || secret == "" {
		return false
	}

	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), decoded)
}

// Sign produces the signature Verify accepts.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
