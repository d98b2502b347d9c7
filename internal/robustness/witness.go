package robustness

import (
	"fmt"

	"github.com/dbrobust/txn-robust-check/internal/model"
)

// Witness is the twelve-field record describing a dangerous structure that
// proves a template set is not robust against mixed isolation levels under
// a given allocation.
type Witness struct {
	T1  *model.Template
	O1  model.Operation
	P1  model.Operation
	H   int
	T2  *model.Template
	O2  model.Operation
	P2  model.Operation
	CO2 model.Conn
	Tn  *model.Template
	On  model.Operation
	Pn  model.Operation
	CPn model.Conn
}

// Explain renders a human-readable description of the witnessed cycle.
func (w *Witness) Explain() string {
	return fmt.Sprintf(
		"pivot %s (o1=%s, p1=%s, h=%d): %s (o2=%s, p2=%s rw-conflicted by o1, co2=%s) reaches %s (on=%s conflicts p1, pn=%s, cpn=%s)",
		w.T1.Name, w.O1.Variable, w.P1.Variable, w.H,
		w.T2.Name, w.O2.Variable, w.P2.Variable, w.CO2,
		w.Tn.Name, w.On.Variable, w.Pn.Variable, w.CPn,
	)
}
