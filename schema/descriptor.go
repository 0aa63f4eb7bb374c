package schema

import "strings"

type (
	// Descriptor wraps a schema tree and exposes its leaves in pre-order. The
	// position of a leaf in that order is the column index used by column
	// chunks and column orders.
	Descriptor struct {
		root    Type
		columns []ColumnDescriptor
		byPath  map[string]int
	}

	// ColumnDescriptor is one leaf of the tree. Path excludes the root name.
	ColumnDescriptor struct {
		Path               []string
		MaxDefinitionLevel int16
		MaxRepetitionLevel int16
		Primitive          *PrimitiveType
	}
)

func NewDescriptor(root Type) *Descriptor {
	d := &Descriptor{
		root:   root,
		byPath: make(map[string]int),
	}
	if g, ok := root.(*GroupType); ok {
		for _, f := range g.fields {
			d.collect(f, nil, 0, 0)
		}
	} else if p, ok := root.(*PrimitiveType); ok {
		// A bare primitive root is its own single leaf.
		d.add(ColumnDescriptor{Path: []string{p.name}, Primitive: p})
	}
	return d
}

func (d *Descriptor) collect(t Type, path []string, def, rep int16) {
	path = append(path[:len(path):len(path)], t.Name())
	switch t.Repetition() {
	case Optional:
		def++
	case Repeated:
		def++
		rep++
	}

	switch n := t.(type) {
	case *PrimitiveType:
		d.add(ColumnDescriptor{
			Path:               path,
			MaxDefinitionLevel: def,
			MaxRepetitionLevel: rep,
			Primitive:          n,
		})
	case *GroupType:
		for _, f := range n.fields {
			d.collect(f, path, def, rep)
		}
	}
}

func (d *Descriptor) add(c ColumnDescriptor) {
	key := c.DottedPath()
	if _, exists := d.byPath[key]; !exists {
		d.byPath[key] = len(d.columns)
	}
	d.columns = append(d.columns, c)
}

// Root returns the tree the descriptor was built from.
func (d *Descriptor) Root() Type {
	return d.root
}

func (d *Descriptor) NumColumns() int {
	return len(d.columns)
}

// Column returns the i-th leaf. It panics when i is out of range; callers
// bound-check against NumColumns.
func (d *Descriptor) Column(i int) ColumnDescriptor {
	return d.columns[i].clone()
}

func (d *Descriptor) Columns() []ColumnDescriptor {
	cols := make([]ColumnDescriptor, len(d.columns))
	for i, c := range d.columns {
		cols[i] = c.clone()
	}
	return cols
}

func (c ColumnDescriptor) clone() ColumnDescriptor {
	c.Path = append([]string(nil), c.Path...)
	return c
}

// ColumnIndex looks up a leaf by its dot separated path.
func (d *Descriptor) ColumnIndex(path string) (int, bool) {
	i, ok := d.byPath[path]
	return i, ok
}

func (c ColumnDescriptor) Name() string {
	return c.Path[len(c.Path)-1]
}

func (c ColumnDescriptor) DottedPath() string {
	return strings.Join(c.Path, ".")
}
