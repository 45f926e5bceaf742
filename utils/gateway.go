package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GatewayClientInterface abstracts the payment gateways. Handlers hold
// this interface; tests inject mocks.
type GatewayClientInterface interface {
	CreateStripeIntent(amountCents int64, currency string, metadata map[string]string) (intentID, clientSecret string, err error)
	CreatePayPalOrder(amount float64, currency string) (orderID string, err error)
}

type GatewayClient struct {
	httpClient     *http.Client
	stripeKey      string
	stripeURL      string
	paypalClientID string
	paypalSecret   string
	paypalURL      string
}

func NewGatewayClient(stripeKey, paypalClientID, paypalSecret string) GatewayClientInterface {
	return &GatewayClient{
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		stripeKey:      stripeKey,
		stripeURL:      "https://api.stripe.com",
		paypalClientID: paypalClientID,
		paypalSecret:   paypalSecret,
		paypalURL:      "https://api-m.paypal.com",
	}
}

// CreateStripeIntent creates a Stripe PaymentIntent and returns its id
// and client secret.
func (g *GatewayClient) CreateStripeIntent(amountCents int64, currency string, metadata map[string]string) (string, string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequest(http.MethodPost, g.stripeURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("failed to build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.stripeKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, body)
	}

	var intent struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", "", fmt.Errorf("failed to decode stripe response: %w", err)
	}
	return intent.ID, intent.ClientSecret, nil
}

// CreatePayPalOrder creates a PayPal order and returns its id.
func (g *GatewayClient) CreatePayPalOrder(amount float64, currency string) (string, error) {
	token, err := g.paypalAccessToken()
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{"amount": map[string]string{
				"currency_code": strings.ToUpper(currency),
				"value":         fmt.Sprintf("%.2f", amount),
			}},
		},
	}
	raw, _ := json.Marshal(payload)

	req, err := http.NewRequest(http.MethodPost, g.paypalURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build paypal request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal returned status %d: %s", resp.StatusCode, body)
	}

	var order struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &order); err != nil {
		return "", fmt.Errorf("failed to decode paypal response: %w", err)
	}
	return order.ID, nil
}

func (g *GatewayClient) paypalAccessToken() (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequest(http.MethodPost, g.paypalURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build paypal token request: %w", err)
	}
	req.SetBasicAuth(g.paypalClientID, g.paypalSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token returned status %d: %s", resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode paypal token response: %w", err)
	}
	return tok.AccessToken, nil
}
