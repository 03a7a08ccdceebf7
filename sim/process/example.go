package process

import (
	"bytes"
	_ "embed"
)

//go:embed models/call_centre.json
var callCentreJSON []byte

// CallCentreJSON returns the raw built-in call centre model: arrivals are
// answered by an operator, 40% need a nurse call back, everyone then exits.
func CallCentreJSON() []byte {
	out := make([]byte, len(callCentreJSON))
	copy(out, callCentreJSON)
	return out
}

// CallCentre parses the built-in call centre model.
func CallCentre() (*Model, error) {
	return Parse(bytes.NewReader(callCentreJSON))
}
