package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
)

func TestResolve(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	periodEnd := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		sub         *models.Subscriber
		now         time.Time
		wantAllowed bool
		wantReason  Reason
	}{
		{
			name:        "sin registro de suscriptor",
			sub:         nil,
			now:         now,
			wantAllowed: false,
			wantReason:  ReasonNoSubscription,
		},
		{
			name: "estado active concede siempre",
			sub: &models.Subscriber{
				Status:            models.SubStatusActive,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  now.Add(-time.Hour),
			},
			now:         now,
			wantAllowed: true,
		},
		{
			name: "estado trialing concede siempre",
			sub: &models.Subscriber{
				Status:           models.SubStatusTrialing,
				CurrentPeriodEnd: time.Time{},
			},
			now:         now,
			wantAllowed: true,
		},
		{
			name: "cancelado con periodo pagado vigente",
			sub: &models.Subscriber{
				Status:            models.SubStatusCanceled,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  periodEnd,
			},
			now:         now,
			wantAllowed: true,
		},
		{
			name: "cancelado justo en el fin de periodo",
			sub: &models.Subscriber{
				Status:            models.SubStatusCanceled,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  periodEnd,
			},
			now:         periodEnd,
			wantAllowed: false,
			wantReason:  ReasonNoSubscription,
		},
		{
			name: "cancelado con periodo ya vencido",
			sub: &models.Subscriber{
				Status:            models.SubStatusCanceled,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  periodEnd,
			},
			now:         periodEnd.Add(time.Second),
			wantAllowed: false,
			wantReason:  ReasonNoSubscription,
		},
		{
			name: "cancelado sin bandera de cancelación pendiente",
			sub: &models.Subscriber{
				Status:           models.SubStatusCanceled,
				CurrentPeriodEnd: periodEnd,
			},
			now:         now,
			wantAllowed: false,
			wantReason:  ReasonNoSubscription,
		},
		{
			name: "cobro fallido",
			sub: &models.Subscriber{
				Status:           models.SubStatusPastDue,
				CurrentPeriodEnd: periodEnd,
			},
			now:         now,
			wantAllowed: false,
			wantReason:  ReasonPaymentFailed,
		},
		{
			name: "cobro fallido con cancelación pendiente y periodo vigente",
			sub: &models.Subscriber{
				Status:            models.SubStatusPastDue,
				CancelAtPeriodEnd: true,
				CurrentPeriodEnd:  periodEnd,
			},
			now:         now,
			wantAllowed: true,
		},
		{
			name: "estado incomplete",
			sub: &models.Subscriber{
				Status: models.SubStatusIncomplete,
			},
			now:         now,
			wantAllowed: false,
			wantReason:  ReasonNoSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.sub, tt.now)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if !tt.wantAllowed {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}
