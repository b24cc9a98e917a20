package cubism

// View is a read-only window onto a table owned by a Model. It aliases native
// memory and is valid until the model's next Update or
// ResetDrawableDynamicFlags, or until the model is closed. Every access is
// checked; a view never reads memory the model no longer vouches for.
type View[T any] struct {
	model *Model
	gen   uint64
	data  []T
}

// Jagged is a table with one variable-length row per element, such as vertex
// positions per drawable.
type Jagged[T any] struct {
	model *Model
	gen   uint64
	rows  [][]T
}

// Len returns the number of elements the view was taken with.
func (v View[T]) Len() int { return len(v.data) }

// Valid reports whether the view can still be read.
func (v View[T]) Valid() bool {
	if v.model == nil {
		return false
	}
	v.model.mu.Lock()
	defer v.model.mu.Unlock()
	return v.model.checkView(v.gen) == nil
}

// At returns element i.
func (v View[T]) At(i int) (T, error) {
	var zero T
	if v.model == nil {
		return zero, ErrModelClosed
	}
	v.model.mu.Lock()
	defer v.model.mu.Unlock()
	if err := v.model.checkView(v.gen); err != nil {
		return zero, err
	}
	if i < 0 || i >= len(v.data) {
		return zero, indexError(i, len(v.data))
	}
	return v.data[i], nil
}

// Copy returns the view's contents in Go-owned memory.
func (v View[T]) Copy() ([]T, error) {
	if v.model == nil {
		return nil, ErrModelClosed
	}
	v.model.mu.Lock()
	defer v.model.mu.Unlock()
	if err := v.model.checkView(v.gen); err != nil {
		return nil, err
	}
	out := make([]T, len(v.data))
	copy(out, v.data)
	return out, nil
}

// Len returns the number of rows.
func (j Jagged[T]) Len() int { return len(j.rows) }

// Valid reports whether the table can still be read.
func (j Jagged[T]) Valid() bool {
	return View[T]{model: j.model, gen: j.gen}.Valid()
}

// Row returns row i as a View sharing the table's validity.
func (j Jagged[T]) Row(i int) (View[T], error) {
	if j.model == nil {
		return View[T]{}, ErrModelClosed
	}
	j.model.mu.Lock()
	defer j.model.mu.Unlock()
	if err := j.model.checkView(j.gen); err != nil {
		return View[T]{}, err
	}
	if i < 0 || i >= len(j.rows) {
		return View[T]{}, indexError(i, len(j.rows))
	}
	return View[T]{model: j.model, gen: j.gen, data: j.rows[i]}, nil
}

// Copy returns every row in Go-owned memory.
func (j Jagged[T]) Copy() ([][]T, error) {
	if j.model == nil {
		return nil, ErrModelClosed
	}
	j.model.mu.Lock()
	defer j.model.mu.Unlock()
	if err := j.model.checkView(j.gen); err != nil {
		return nil, err
	}
	out := make([][]T, len(j.rows))
	for i, row := range j.rows {
		out[i] = append([]T(nil), row...)
	}
	return out, nil
}
