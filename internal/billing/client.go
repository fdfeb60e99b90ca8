// Package billing implementa el cliente HTTP del procesador de pagos
// (sesiones de checkout y portal de facturación) y los tipos de los
// eventos de webhook que este entrega.
package billing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client es el cliente autenticado del API del procesador de pagos.
type Client struct {
	accountID  string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient crea el cliente del procesador con autenticación Basic.
func NewClient(accountID, secretKey, apiURL string) *Client {
	return &Client{
		accountID:  accountID,
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.accountID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateCheckoutSession pide una sesión de checkout para el plan y
// devuelve la URL de redirección del pago alojado.
func (c *Client) CreateCheckoutSession(ctx context.Context, reqParams CreateCheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var sessionResp CheckoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sessionResp); err != nil {
		return nil, err
	}
	return &sessionResp, nil
}

// CreatePortalSession pide una sesión del portal de autogestión de
// facturación para el cliente indicado.
func (c *Client) CreatePortalSession(ctx context.Context, reqParams CreatePortalSessionRequest) (*PortalSessionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/billing_portal/sessions", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var portalResp PortalSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&portalResp); err != nil {
		return nil, err
	}
	return &portalResp, nil
}
