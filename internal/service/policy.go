package service

import (
	"github.com/spazahub/spaza_api/internal/models"
	"github.com/spazahub/spaza_api/internal/utils"
)

// Action names something an actor wants to do to a resource.
type Action string

const (
	ActionViewOrder        Action = "order:view"
	ActionCancelOrder      Action = "order:cancel"
	ActionRepeatOrder      Action = "order:repeat"
	ActionReconcileOrder   Action = "order:reconcile"
	ActionAcknowledgeOrder Action = "order:acknowledge"
	ActionFulfilOrder      Action = "order:fulfil"
	ActionManageBranch     Action = "branch:manage"
	ActionManageCampaign   Action = "campaign:manage"
)

// Actor is the authenticated principal behind a request.
type Actor struct {
	AccountID int
	Role      models.Role
}

// Resource describes the thing being acted on, reduced to the ownership facts
// policy decisions need. CustomerAccountID is the account of the customer who
// owns an order; MerchantAccountID is the account of the merchant who owns
// the branch involved.
type Resource struct {
	CustomerAccountID int
	MerchantAccountID int
}

// customerActions are taken by the customer who owns the order.
var customerActions = map[Action]bool{
	ActionViewOrder:      true,
	ActionCancelOrder:    true,
	ActionRepeatOrder:    true,
	ActionReconcileOrder: true,
}

// merchantActions are taken by the merchant who owns the branch.
var merchantActions = map[Action]bool{
	ActionViewOrder:        true,
	ActionAcknowledgeOrder: true,
	ActionFulfilOrder:      true,
	ActionManageBranch:     true,
	ActionManageCampaign:   true,
}

// Authorize decides whether the actor may perform the action on the resource.
// It is a pure function of its arguments so it can be tested without any HTTP
// or database plumbing.
func Authorize(actor Actor, resource Resource, action Action) error {
	switch actor.Role {
	case models.RoleCustomer:
		if customerActions[action] && actor.AccountID == resource.CustomerAccountID {
			return nil
		}
	case models.RoleMerchant:
		if merchantActions[action] && actor.AccountID == resource.MerchantAccountID {
			return nil
		}
	}
	return utils.ErrForbidden
}
