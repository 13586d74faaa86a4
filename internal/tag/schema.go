package tag

// Schema is the UI description of one Tag.
type Schema struct {
	Name     string     `json:"name"`
	Text     string     `json:"text"`
	Type     Type       `json:"type"`
	ReadOnly bool       `json:"readOnly"`
	Comment  string     `json:"comment,omitempty"`
	Value    any        `json:"value"`
	Unit     string     `json:"unit,omitempty"`
	On       string     `json:"on,omitempty"`
	Off      string     `json:"off,omitempty"`
	List     []ListItem `json:"list,omitempty"`
}

// ListItem is one entry of an Enum's label list.
type ListItem struct {
	Index int    `json:"i"`
	Label string `json:"v"`
}

// Schema describes the Tag for the schema document. The value is
// included regardless of access so the UI can render initial state.
func (t *Tag) Schema() Schema {
	s := Schema{
		Name:     t.Name,
		Text:     t.Label,
		Type:     t.Type(),
		ReadOnly: t.ReadOnly(),
		Comment:  t.Comment,
		Value:    t.Value.get(),
		Unit:     t.Unit,
	}
	switch v := t.Value.(type) {
	case Bool:
		s.On, s.Off = t.On, t.Off
	case Enum:
		s.List = make([]ListItem, len(v.Labels))
		for i, label := range v.Labels {
			s.List[i] = ListItem{Index: i, Label: label}
		}
	}
	return s
}
