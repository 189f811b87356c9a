package reconciliation

import (
	"github.com/backoffice/backend/internal/domain/numbering"
	"github.com/backoffice/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// ReferenceKind labels how a ledger entry's free-text references were tied
// back to an order, if at all.
type ReferenceKind string

const (
	// ReferenceUnresolved means neither reference matched an in-scope order.
	// Manual adjustments and legacy postings land here; it is not an error.
	ReferenceUnresolved ReferenceKind = "UNRESOLVED"
	// ReferenceByOrderID means the application reference parsed as an order id
	ReferenceByOrderID ReferenceKind = "BY_ORDER_ID"
	// ReferenceByDocumentNumber means the reference number is a minted
	// document number
	ReferenceByDocumentNumber ReferenceKind = "BY_DOCUMENT_NUMBER"
	// ReferenceByOrderNumber means the reference number is a raw order number
	ReferenceByOrderNumber ReferenceKind = "BY_ORDER_NUMBER"
)

// ResolvedReference is the normalized form of a ledger entry's weak order
// pointer, computed once so the projections never re-parse the raw strings.
type ResolvedReference struct {
	Kind    ReferenceKind
	OrderID uuid.UUID // zero unless Kind != ReferenceUnresolved
}

// IsResolved reports whether the reference points at an in-scope order
func (r ResolvedReference) IsResolved() bool {
	return r.Kind != ReferenceUnresolved
}

// Unresolved is the resolution for entries unrelated to any in-scope order
func Unresolved() ResolvedReference {
	return ResolvedReference{Kind: ReferenceUnresolved}
}

// ReferenceResolver resolves the free-text references carried by ledger
// entries against the in-scope order set. Legacy postings hold order ids,
// minted document numbers, raw order numbers, or garbage in those fields;
// resolution tries each interpretation in priority order and degrades to
// unresolved without erroring.
type ReferenceResolver struct {
	ordersByID     map[uuid.UUID]*trade.SalesOrder
	orderByDocNo   map[string]uuid.UUID
	orderByOrderNo map[string]uuid.UUID
	displayRefs    map[uuid.UUID]string
}

// NewReferenceResolver indexes the in-scope orders and their assigned
// document numbers for resolution and display-reference lookup.
func NewReferenceResolver(orders []trade.SalesOrder, assignments map[uuid.UUID]numbering.DocumentNumberAssignment) *ReferenceResolver {
	r := &ReferenceResolver{
		ordersByID:     make(map[uuid.UUID]*trade.SalesOrder, len(orders)),
		orderByDocNo:   make(map[string]uuid.UUID, len(assignments)),
		orderByOrderNo: make(map[string]uuid.UUID, len(orders)),
		displayRefs:    make(map[uuid.UUID]string, len(orders)),
	}
	for i := range orders {
		order := &orders[i]
		r.ordersByID[order.ID] = order
		r.orderByOrderNo[order.OrderNumber] = order.ID
		r.displayRefs[order.ID] = order.OrderNumber
	}
	for orderID, assignment := range assignments {
		if _, ok := r.ordersByID[orderID]; !ok {
			continue
		}
		r.orderByDocNo[assignment.Number] = orderID
		r.displayRefs[orderID] = assignment.Number
	}
	return r
}

// Resolve ties a ledger entry's references back to an order, trying in order:
// the application reference as an order id, the reference number as a minted
// document number, the reference number as a raw order number. Unknown or
// malformed values simply fail a step and fall through.
func (r *ReferenceResolver) Resolve(applicationReference, referenceNumber string) ResolvedReference {
	if applicationReference != "" {
		if orderID, err := uuid.Parse(applicationReference); err == nil {
			if _, ok := r.ordersByID[orderID]; ok {
				return ResolvedReference{Kind: ReferenceByOrderID, OrderID: orderID}
			}
		}
	}
	if referenceNumber != "" {
		if orderID, ok := r.orderByDocNo[referenceNumber]; ok {
			return ResolvedReference{Kind: ReferenceByDocumentNumber, OrderID: orderID}
		}
		if orderID, ok := r.orderByOrderNo[referenceNumber]; ok {
			return ResolvedReference{Kind: ReferenceByOrderNumber, OrderID: orderID}
		}
	}
	return Unresolved()
}

// DisplayReference returns the human-facing reference for an order: its
// minted document number if one exists, else the raw order number.
func (r *ReferenceResolver) DisplayReference(orderID uuid.UUID) string {
	return r.displayRefs[orderID]
}

// Order returns an in-scope order by id
func (r *ReferenceResolver) Order(orderID uuid.UUID) (*trade.SalesOrder, bool) {
	order, ok := r.ordersByID[orderID]
	return order, ok
}
