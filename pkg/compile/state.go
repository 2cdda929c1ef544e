package compile

import "github.com/inkdoc/inkdoc/pkg/xform"

// ctmStack tracks the current transform matrix across q/Q nesting, the
// same clone-on-push discipline as the teacher's GraphicsStateStack
// (pkg/gopdf/graphics_state.go), reduced to the one field the compiler
// needs: bounding boxes and gradient/pattern coordinates are computed
// in the local (pre-CTM) coordinate space, so CTM tracking here exists
// only to support nested transforms, not to retransform output.
type ctmStack struct {
	stack []xform.Matrix
}

func newCTMStack() *ctmStack {
	return &ctmStack{stack: []xform.Matrix{xform.Identity()}}
}

func (s *ctmStack) current() xform.Matrix {
	return s.stack[len(s.stack)-1]
}

func (s *ctmStack) push(m xform.Matrix) {
	s.stack = append(s.stack, s.current().Multiply(m))
}

func (s *ctmStack) pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}
