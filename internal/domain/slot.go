// internal/domain/slot.go
package domain

// CommissionSlot identifies one of the fixed commission-recipient roles a
// pending sale carries. Every pending sale is created with exactly one detail
// row per catalog slot; slots are filled in by approvers, never added or
// removed.
type CommissionSlot int

const (
	SlotBroker CommissionSlot = iota + 1
	SlotSalesDirector
	SlotUnitManager
	SlotSalesPerson
	SlotSalesAssociate
	SlotAssistanceFee
	SlotReferralFee
	// SlotOthers is a catch-all recipient role. It exists in the position
	// catalog but is not part of the detail rows created at filing time.
	SlotOthers
)

// SlotCatalog is the ordered set of detail rows created for every pending
// sale at filing time.
var SlotCatalog = [...]CommissionSlot{
	SlotBroker,
	SlotSalesDirector,
	SlotUnitManager,
	SlotSalesPerson,
	SlotSalesAssociate,
	SlotAssistanceFee,
	SlotReferralFee,
}

var slotNames = map[CommissionSlot]string{
	SlotBroker:         "BROKER",
	SlotSalesDirector:  "SALES DIRECTOR",
	SlotUnitManager:    "UNIT MANAGER",
	SlotSalesPerson:    "SALES PERSON",
	SlotSalesAssociate: "SALES ASSOCIATE",
	SlotAssistanceFee:  "ASSISTANCE FEE",
	SlotReferralFee:    "REFERRAL FEE",
	SlotOthers:         "OTHERS",
}

// PositionName returns the canonical position label stored on detail rows.
func (s CommissionSlot) PositionName() string {
	return slotNames[s]
}

// PositionID returns the canonical numeric position identifier.
func (s CommissionSlot) PositionID() int {
	return int(s)
}

// SlotByPositionName resolves a position label back to its catalog slot.
func SlotByPositionName(name string) (CommissionSlot, bool) {
	for slot, n := range slotNames {
		if n == name {
			return slot, true
		}
	}
	return 0, false
}
