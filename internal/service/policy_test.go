package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

func TestAuthorize(t *testing.T) {
	owner := Actor{AccountID: 7, Role: models.RoleCustomer}
	otherCustomer := Actor{AccountID: 8, Role: models.RoleCustomer}
	merchant := Actor{AccountID: 20, Role: models.RoleMerchant}
	otherMerchant := Actor{AccountID: 21, Role: models.RoleMerchant}

	resource := Resource{CustomerAccountID: 7, MerchantAccountID: 20}

	tests := []struct {
		name    string
		actor   Actor
		action  Action
		allowed bool
	}{
		{"owner views own order", owner, ActionViewOrder, true},
		{"owner cancels own order", owner, ActionCancelOrder, true},
		{"owner repeats own order", owner, ActionRepeatOrder, true},
		{"owner reconciles own order", owner, ActionReconcileOrder, true},
		{"other customer cannot view", otherCustomer, ActionViewOrder, false},
		{"other customer cannot cancel", otherCustomer, ActionCancelOrder, false},
		{"customer cannot fulfil", owner, ActionFulfilOrder, false},
		{"customer cannot acknowledge", owner, ActionAcknowledgeOrder, false},
		{"customer cannot manage branch", owner, ActionManageBranch, false},
		{"branch merchant views order", merchant, ActionViewOrder, true},
		{"branch merchant acknowledges", merchant, ActionAcknowledgeOrder, true},
		{"branch merchant fulfils", merchant, ActionFulfilOrder, true},
		{"branch merchant manages campaigns", merchant, ActionManageCampaign, true},
		{"merchant cannot cancel customer order", merchant, ActionCancelOrder, false},
		{"merchant cannot repeat customer order", merchant, ActionRepeatOrder, false},
		{"other merchant cannot fulfil", otherMerchant, ActionFulfilOrder, false},
		{"other merchant cannot manage branch", otherMerchant, ActionManageBranch, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, resource, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, utils.ErrForbidden)
			}
		})
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	actor := Actor{AccountID: 7, Role: models.Role("admin")}
	err := Authorize(actor, Resource{CustomerAccountID: 7}, ActionViewOrder)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}
