package schema

// FieldRole describes one row field the pipeline reads.
type FieldRole struct {
	Flag        string `json:"flag"`
	Role        string `json:"role"`
	Required    bool   `json:"required"`
	Current     string `json:"current"` // Mapping in effect, "" when the series is disabled
	Description string `json:"description"`
}

// VariantDefinition describes how a chart variant windows its series.
type VariantDefinition struct {
	Name        Variant     `json:"name"`
	Granularity Granularity `json:"granularity"`
	Window      string      `json:"window"`
	LastLabel   string      `json:"last_label"`
	PriorLabel  string      `json:"prior_label"`
}

// FieldsRenderModel contains everything the fields command displays.
type FieldsRenderModel struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Fields      []FieldRole         `json:"fields"`
	Variants    []VariantDefinition `json:"variants"`
	Metrics     map[string]string   `json:"metrics"`
}
