package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentSequence is the single mutable counter a tenant's commercial
// document numbers are minted from. Next is the value the next allocation
// receives; it is monotonically non-decreasing and each successful allocation
// advances it by exactly one.
type DocumentSequence struct {
	shared.TenantEntity
	Prefix string // e.g. "BHPCIN26"
	Next   int64
}

// NewDocumentSequence creates a sequence starting at the given value
func NewDocumentSequence(tenantID uuid.UUID, prefix string, start int64) (*DocumentSequence, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if prefix == "" {
		return nil, shared.NewDomainError("INVALID_PREFIX", "Sequence prefix cannot be empty")
	}
	if start < 1 {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Sequence must start at 1 or above")
	}
	return &DocumentSequence{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Prefix:       prefix,
		Next:         start,
	}, nil
}

// Format renders a counter value as a document number, e.g. "BHPCIN26-3042"
func (s *DocumentSequence) Format(n int64) string {
	return fmt.Sprintf("%s-%d", s.Prefix, n)
}

// NumericSuffix extracts the counter value from a document number minted with
// the "<prefix>-<N>" format. Returns false when the string does not look like
// a minted number.
func NumericSuffix(number string) (int64, bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DocumentNumberAssignment records the number minted for one order.
// At most one assignment exists per order, and once written it never changes:
// repeat requests for the same order must see the same value.
type DocumentNumberAssignment struct {
	shared.TenantEntity
	OrderID uuid.UUID
	Number  string
}

// NewDocumentNumberAssignment creates an assignment
func NewDocumentNumberAssignment(tenantID, orderID uuid.UUID, number string) (*DocumentNumberAssignment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	return &DocumentNumberAssignment{
		TenantEntity: shared.NewTenantEntity(tenantID),
		OrderID:      orderID,
		Number:       number,
	}, nil
}
