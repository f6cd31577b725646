package mdast

// Metadata is document information that is not part of the rendered body.
type Metadata struct {
	Author    string `json:"author,omitempty"    yaml:"author,omitempty"`
	Copyright string `json:"copyright,omitempty" yaml:"copyright,omitempty"`
}

// IsZero reports whether no metadata was set.
func (m Metadata) IsZero() bool {
	return m == Metadata{}
}
