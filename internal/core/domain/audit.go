package domain

import "time"

// Audit decisions.
const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
)

// Audit actions.
const (
	ActionLogin         = "login"
	ActionCreateProduct = "create_product"
	ActionUpdateProduct = "update_product"
	ActionDeleteProduct = "delete_product"
	ActionListOwn       = "list_own_products"
)

// AuditEvent records a single authentication or authorization decision.
// Events are persisted asynchronously; the trail is best-effort.
type AuditEvent struct {
	Actor     string    `json:"actor" bson:"actor"`
	Action    string    `json:"action" bson:"action"`
	ProductID string    `json:"product_id,omitempty" bson:"product_id,omitempty"`
	Decision  string    `json:"decision" bson:"decision"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
