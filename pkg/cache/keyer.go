package cache

// LayoutKeyOpts holds everything besides the dataset that changes a layout.
type LayoutKeyOpts struct {
	ConfigHash string `json:"config"`
	Weighting  string `json:"weighting"`
	Filter     string `json:"filter,omitempty"`
}

// ArtifactKeyOpts holds the render options of one output.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Title      string  `json:"title,omitempty"`
	Resources  bool    `json:"resources,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every component into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
