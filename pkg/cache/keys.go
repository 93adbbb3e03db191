package cache

// LayoutKeyOpts holds every option that changes the computed layout.
type LayoutKeyOpts struct {
	Algorithm       string  `json:"algorithm"`
	Spacing         float64 `json:"spacing"`
	CostFunction    string  `json:"cost_function"`
	RootSelection   string  `json:"root_selection"`
	RootRef         string  `json:"root_ref,omitempty"`
	Mode            string  `json:"mode"`
	MaxIterations   int     `json:"max_iterations"`
	NaiveCheck      bool    `json:"naive_check,omitempty"`
	EdgePolicy      string  `json:"edge_policy"`
	Padding         float64 `json:"padding"`
	Seed            uint64  `json:"seed"`
	AssertConnected bool    `json:"assert_connected,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Scale         float64 `json:"scale"`
	ShowLabels    bool    `json:"show_labels"`
	ShowEdges     bool    `json:"show_edges"`
	ShowContainer bool    `json:"show_container"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the diagram with the given hash.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// CheckKey returns the key for an overlap report of a diagram.
	CheckKey(diagramHash string, spacing float64, naive bool) string
}

// DefaultKeyer generates unprefixed keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// CheckKey implements Keyer.
func (DefaultKeyer) CheckKey(diagramHash string, spacing float64, naive bool) string {
	return hashKey("check", diagramHash, spacing, naive)
}

var _ Keyer = DefaultKeyer{}
