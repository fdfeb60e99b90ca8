package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"invoice.payment_succeeded"}`)

	assert.True(t, VerifySignature("secret", body, sign("secret", body)))
	assert.False(t, VerifySignature("secret", body, sign("other", body)))
	assert.False(t, VerifySignature("secret", body, ""))
}

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantType  string
		unknown   bool
		checkData func(t *testing.T, e *Event)
	}{
		{
			name: "checkout completado",
			body: `{"id":"evt_1","type":"checkout.session.completed","data":{
				"session_id":"cs_1","customer_id":"cus_1","plan_id":"plan_monthly",
				"current_period_end":1735689600,
				"metadata":{"account_uid":"11111111-1111-1111-1111-111111111111"}}}`,
			wantType: EventCheckoutCompleted,
			checkData: func(t *testing.T, e *Event) {
				require.NotNil(t, e.Checkout)
				assert.Equal(t, "plan_monthly", e.Checkout.PlanID)
				assert.Equal(t, "11111111-1111-1111-1111-111111111111", e.AccountUID())
			},
		},
		{
			name: "factura pagada",
			body: `{"id":"evt_2","type":"invoice.payment_succeeded","data":{
				"invoice_id":"in_1","customer_id":"cus_1","current_period_end":1735689600,
				"metadata":{"account_uid":"uid-1"}}}`,
			wantType: EventInvoicePaymentSucceeded,
			checkData: func(t *testing.T, e *Event) {
				require.NotNil(t, e.Invoice)
				assert.EqualValues(t, 1735689600, e.Invoice.CurrentPeriodEnd)
			},
		},
		{
			name: "suscripción actualizada",
			body: `{"id":"evt_3","type":"customer.subscription.updated","data":{
				"subscription_id":"sub_1","customer_id":"cus_1","plan_id":"plan_annual",
				"status":"active","current_period_end":1767225600,"cancel_at_period_end":true,
				"metadata":{"account_uid":"uid-1"}}}`,
			wantType: EventSubscriptionUpdated,
			checkData: func(t *testing.T, e *Event) {
				require.NotNil(t, e.Subscription)
				assert.True(t, e.Subscription.CancelAtPeriodEnd)
			},
		},
		{
			name:     "tipo desconocido",
			body:     `{"id":"evt_4","type":"charge.refunded","data":{}}`,
			wantType: "charge.refunded",
			unknown:  true,
		},
		{
			name:    "sin tipo",
			body:    `{"id":"evt_5","data":{}}`,
			wantErr: true,
		},
		{
			name:    "checkout sin account_uid",
			body:    `{"id":"evt_6","type":"checkout.session.completed","data":{"session_id":"cs_2","metadata":{}}}`,
			wantErr: true,
		},
		{
			name:    "JSON inválido",
			body:    `not a json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := DecodeEvent([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			if tt.unknown {
				require.ErrorIs(t, err, ErrUnknownEvent)
				assert.Equal(t, tt.wantType, event.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, event.Type)
			if tt.checkData != nil {
				tt.checkData(t, event)
			}
		})
	}
}
