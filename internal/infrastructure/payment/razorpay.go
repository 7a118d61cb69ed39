package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"telehealth-backend/config"
	"telehealth-backend/internal/domain/gateway"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"
)

type razorpayGateway struct {
	client *razorpay.Client
	secret string
	log    *logrus.Logger
}

// NewRazorpayGateway wires the Razorpay SDK behind the PaymentGateway surface.
func NewRazorpayGateway(cfg config.RazorpayConfig, log *logrus.Logger) gateway.PaymentGateway {
	return &razorpayGateway{
		client: razorpay.NewClient(cfg.Key, cfg.Secret),
		secret: cfg.Secret,
		log:    log,
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.log.Warnf("Razorpay order creation failed (amount=%d %s): %+v", amount, currency, err)
		return nil, fmt.Errorf("create payment order: %w", err)
	}

	return order, nil
}

// VerifySignature recomputes the HMAC-SHA256 over "orderID|paymentID" with the
// key secret and compares it in constant time. No provider round trip needed.
func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
