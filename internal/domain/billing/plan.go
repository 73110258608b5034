package billing

// Plan is a purchasable credit pack.
type Plan struct {
	ID      string `json:"id"`
	Credits int64  `json:"credits"`
	// Amount is the price in major currency units.
	Amount int64 `json:"amount"`
}

// Plans are priced one currency unit per credit.
var Plans = []Plan{
	{ID: "pack_500", Credits: 500, Amount: 500},
	{ID: "pack_1000", Credits: 1000, Amount: 1000},
	{ID: "pack_3000", Credits: 3000, Amount: 3000},
}

// FindPlan returns the plan with the given id.
func FindPlan(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
