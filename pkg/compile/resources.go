package compile

import "fmt"

// resources collects the opaque resource blobs the compiler generates
// during a single compile call, keyed by generated names (spec §4.6's
// contract: Sh1, GS1, P1, Im1, ...). Grounded on the teacher's
// Resources map-of-maps (pkg/gopdf/resources.go), flattened here to
// byte blobs since the caller owns assembling the actual page resource
// dictionary (spec §6's "Resource dictionaries").
type resources struct {
	Shadings       map[string][]byte
	Patterns       map[string][]byte
	XObjects       map[string][]byte
	GraphicsStates map[string][]byte

	shadingN int
	patternN int
	xobjectN int
	gstateN  int
}

func newResources() *resources {
	return &resources{
		Shadings:       map[string][]byte{},
		Patterns:       map[string][]byte{},
		XObjects:       map[string][]byte{},
		GraphicsStates: map[string][]byte{},
	}
}

func (r *resources) addShading(blob []byte) string {
	r.shadingN++
	name := fmt.Sprintf("Sh%d", r.shadingN)
	r.Shadings[name] = blob
	return name
}

func (r *resources) addPattern(blob []byte) string {
	r.patternN++
	name := fmt.Sprintf("P%d", r.patternN)
	r.Patterns[name] = blob
	return name
}

func (r *resources) addXObject(blob []byte) string {
	r.xobjectN++
	name := fmt.Sprintf("Im%d", r.xobjectN)
	r.XObjects[name] = blob
	return name
}

func (r *resources) addFormXObject(blob []byte) string {
	r.xobjectN++
	name := fmt.Sprintf("FXO%d", r.xobjectN)
	r.XObjects[name] = blob
	return name
}

func (r *resources) addGraphicsState(blob []byte) string {
	r.gstateN++
	name := fmt.Sprintf("GS%d", r.gstateN)
	r.GraphicsStates[name] = blob
	return name
}
