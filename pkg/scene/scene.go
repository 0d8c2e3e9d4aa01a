package scene

import (
	"slices"

	"github.com/matzehuels/floatpos/pkg/errors"
	"github.com/matzehuels/floatpos/pkg/geom"
)

// Scene is a set of named elements on a page and the positioning jobs to run
// against them.
type Scene struct {
	Name string `json:"name,omitempty" toml:"name,omitempty"`

	// Viewport is the visible area. It is the default root boundary.
	Viewport geom.Rect `json:"viewport" toml:"viewport"`

	// Document is the full page. Nil means the page is the viewport.
	Document *geom.Rect `json:"document,omitempty" toml:"document,omitempty"`

	// RTL is the default writing direction of every element.
	RTL bool `json:"rtl,omitempty" toml:"rtl,omitempty"`

	Elements map[string]Element `json:"elements" toml:"elements"`
	Jobs     []Job              `json:"jobs,omitempty" toml:"jobs,omitempty"`
}

// Element is a box on the page. Rects are in page coordinates.
type Element struct {
	Rect geom.Rect `json:"rect" toml:"rect"`

	// Parent names the containing element.
	Parent string `json:"parent,omitempty" toml:"parent,omitempty"`

	// Clip marks an element that clips its descendants, like a scroll
	// container.
	Clip bool `json:"clip,omitempty" toml:"clip,omitempty"`

	// Positioned makes the element the offset parent of its descendants.
	Positioned bool `json:"positioned,omitempty" toml:"positioned,omitempty"`

	// RTL overrides the scene's writing direction.
	RTL *bool `json:"rtl,omitempty" toml:"rtl,omitempty"`

	// Scale is the element's transform scale. Nil is unscaled.
	Scale *geom.Coords `json:"scale,omitempty" toml:"scale,omitempty"`

	// ClientRects are the line boxes of an inline element.
	ClientRects []geom.Rect `json:"client_rects,omitempty" toml:"client_rects,omitempty"`
}

// Job positions one floating element against one reference.
type Job struct {
	// ID identifies the job in results. Empty IDs are assigned when the
	// scene is run.
	ID string `json:"id,omitempty" toml:"id,omitempty"`

	Reference  string           `json:"reference" toml:"reference"`
	Floating   string           `json:"floating" toml:"floating"`
	Placement  geom.Placement   `json:"placement,omitempty" toml:"placement,omitempty"`
	Strategy   geom.Strategy    `json:"strategy,omitempty" toml:"strategy,omitempty"`
	Middleware []MiddlewareSpec `json:"middleware,omitempty" toml:"middleware,omitempty"`
}

// ElementNames returns the element names in sorted order.
func (s *Scene) ElementNames() []string {
	names := make([]string, 0, len(s.Elements))
	for name := range s.Elements {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Job returns the job with the given ID.
func (s *Scene) Job(id string) (Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// Validate checks the scene for structural errors: bad names or rects,
// unknown parents, parent cycles and jobs that refer to missing elements.
func (s *Scene) Validate() error {
	if err := errors.ValidateRect("viewport", s.Viewport); err != nil {
		return err
	}
	if s.Document != nil {
		if err := errors.ValidateRect("document", *s.Document); err != nil {
			return err
		}
	}

	for _, name := range s.ElementNames() {
		el := s.Elements[name]
		if err := errors.ValidateElementName(name); err != nil {
			return err
		}
		if err := errors.ValidateRect(name, el.Rect); err != nil {
			return err
		}
		for i, r := range el.ClientRects {
			if err := errors.ValidateRect(name+" client rect", r); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "element %q client rect %d", name, i)
			}
		}
		if el.Parent != "" {
			if _, ok := s.Elements[el.Parent]; !ok {
				return errors.New(errors.ErrCodeInvalidScene, "element %q: unknown parent %q", name, el.Parent)
			}
		}
		if s.hasParentCycle(name) {
			return errors.New(errors.ErrCodeInvalidScene, "element %q: parent chain forms a cycle", name)
		}
	}

	seen := make(map[string]bool, len(s.Jobs))
	for i, j := range s.Jobs {
		if j.ID != "" {
			if seen[j.ID] {
				return errors.New(errors.ErrCodeInvalidScene, "duplicate job id %q", j.ID)
			}
			seen[j.ID] = true
		}
		if err := s.validateJob(j); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "job %d", i)
		}
	}
	return nil
}

func (s *Scene) validateJob(j Job) error {
	for _, name := range []string{j.Reference, j.Floating} {
		if _, ok := s.Elements[name]; !ok {
			return errors.New(errors.ErrCodeInvalidScene, "unknown element %q", name)
		}
	}
	if !j.Placement.IsZero() {
		if err := errors.ValidatePlacement(j.Placement); err != nil {
			return err
		}
	}
	if j.Strategy != "" {
		if err := errors.ValidateStrategy(j.Strategy); err != nil {
			return err
		}
	}
	for i, spec := range j.Middleware {
		if err := spec.validate(s); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "middleware %d", i)
		}
	}
	return nil
}

func (s *Scene) hasParentCycle(name string) bool {
	visited := map[string]bool{}
	for cur := name; cur != ""; cur = s.Elements[cur].Parent {
		if visited[cur] {
			return true
		}
		visited[cur] = true
	}
	return false
}

// ancestors returns the chain of parents of name, nearest first.
func (s *Scene) ancestors(name string) []string {
	var chain []string
	visited := map[string]bool{name: true}
	for cur := s.Elements[name].Parent; cur != "" && !visited[cur]; cur = s.Elements[cur].Parent {
		visited[cur] = true
		chain = append(chain, cur)
	}
	return chain
}

// Place returns the page rect the named floating element covers when
// positioned at coords with the given strategy. Absolute coordinates are
// relative to the element's nearest positioned ancestor.
func (s *Scene) Place(floating string, strategy geom.Strategy, at geom.Coords) geom.Rect {
	el := s.Elements[floating]
	r := geom.Rect{X: at.X, Y: at.Y, Width: el.Rect.Width, Height: el.Rect.Height}
	if strategy == geom.Fixed {
		return r
	}
	for _, a := range s.ancestors(floating) {
		if parent := s.Elements[a]; parent.Positioned {
			r.X += parent.Rect.X
			r.Y += parent.Rect.Y
			break
		}
	}
	return r
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	c := *s
	if s.Document != nil {
		doc := *s.Document
		c.Document = &doc
	}
	c.Elements = make(map[string]Element, len(s.Elements))
	for name, el := range s.Elements {
		el.ClientRects = slices.Clone(el.ClientRects)
		c.Elements[name] = el
	}
	c.Jobs = slices.Clone(s.Jobs)
	return &c
}
