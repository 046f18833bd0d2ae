package feature

// Labels tracks a slice of features and their index locations that match up
// with the column ordering of a feature matrix.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int)
	for i := 0; i < len(labels); i++ {
		idx[labels[i].String()] = i
	}
	fl := &Labels{
		labels: labels,
		idx:    idx,
	}
	return fl
}

func (f *Labels) Len() int {
	if f == nil {
		return 0
	}
	return len(f.labels)
}

func (f *Labels) Labels() []Feature {
	if f == nil {
		return nil
	}
	labels := make([]Feature, len(f.labels))
	copy(labels, f.labels)
	return labels
}

// Names returns the string form of every label in column order
func (f *Labels) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.labels))
	for i, label := range f.labels {
		names[i] = label.String()
	}
	return names
}

func (f *Labels) Index(label Feature) (int, bool) {
	return f.IndexOf(label.String())
}

// IndexOf looks up a column by its string name
func (f *Labels) IndexOf(name string) (int, bool) {
	if f == nil {
		return -1, false
	}
	if idx, exists := f.idx[name]; exists {
		return idx, exists
	}
	return -1, false
}

// OfClass returns the column indices whose feature belongs to the given class
func (f *Labels) OfClass(class Class) []int {
	if f == nil {
		return nil
	}
	var idxs []int
	for i, label := range f.labels {
		if label.Type() == class {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
