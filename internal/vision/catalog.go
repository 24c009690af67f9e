package vision

import "strings"

// ObjectDimensions holds empirically chosen real-world dimensions for an
// object class, in meters. Depth is optional and only informative; the
// estimator works from width and height.
type ObjectDimensions struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Depth  *float64 `json:"depth,omitempty"`
}

// Catalog maps object class labels to real-world dimensions. Lookups are
// case-insensitive exact matches. A Catalog is immutable once built;
// WithEntries returns an extended copy so configuration hot-swaps never
// mutate a catalog another frame may be reading.
type Catalog struct {
	entries map[string]ObjectDimensions
}

// NewCatalog builds a catalog from the given entries. Labels are folded to
// lower case.
func NewCatalog(entries map[string]ObjectDimensions) *Catalog {
	m := make(map[string]ObjectDimensions, len(entries))
	for label, dims := range entries {
		m[normalizeLabel(label)] = dims
	}
	return &Catalog{entries: m}
}

// DefaultCatalog returns the built-in catalog of common object classes.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultDimensions)
}

// Lookup returns the dimensions for a label, if known. A miss is not an
// error: it routes the caller to the area-based fallback estimator.
func (c *Catalog) Lookup(label string) (ObjectDimensions, bool) {
	dims, ok := c.entries[normalizeLabel(label)]
	return dims, ok
}

func normalizeLabel(label string) string { return strings.ToLower(label) }

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.entries) }

// WithEntries returns a new catalog extended (or overridden) by the given
// entries. The receiver is left untouched.
func (c *Catalog) WithEntries(entries map[string]ObjectDimensions) *Catalog {
	m := make(map[string]ObjectDimensions, len(c.entries)+len(entries))
	for label, dims := range c.entries {
		m[label] = dims
	}
	for label, dims := range entries {
		m[normalizeLabel(label)] = dims
	}
	return &Catalog{entries: m}
}

// Labels returns all known labels (lower-cased, unordered).
func (c *Catalog) Labels() []string {
	labels := make([]string, 0, len(c.entries))
	for label := range c.entries {
		labels = append(labels, label)
	}
	return labels
}

// DimensionFor selects the scalar real-world size the pinhole formula uses
// for the given method. MaxDimension and MinDimension are not blended: the
// estimator computes per-axis depths from the raw width and height and picks
// the extremum, so for those methods this returns the width as a placeholder
// that the estimator ignores.
func DimensionFor(dims ObjectDimensions, method Method) float64 {
	switch method {
	case MethodWidth:
		return dims.Width
	case MethodHeight:
		return dims.Height
	case MethodAverageDimension:
		return (dims.Width + dims.Height) / 2.0
	case MethodMaxDimension, MethodMinDimension:
		return dims.Width
	}
	return dims.Width
}

// defaultDimensions is the curated default table. Widths and heights are
// typical real-world sizes in meters, chosen for plausibility of the
// resulting distance estimates rather than taxonomic precision.
var defaultDimensions = map[string]ObjectDimensions{
	// People and animals
	"person":   {Width: 0.50, Height: 1.70},
	"bird":     {Width: 0.25, Height: 0.20},
	"cat":      {Width: 0.45, Height: 0.30},
	"dog":      {Width: 0.55, Height: 0.60},
	"horse":    {Width: 2.00, Height: 1.60},
	"sheep":    {Width: 1.20, Height: 0.90},
	"cow":      {Width: 2.20, Height: 1.50},
	"elephant": {Width: 4.00, Height: 3.00},
	"bear":     {Width: 1.80, Height: 1.20},
	"zebra":    {Width: 2.30, Height: 1.40},
	"giraffe":  {Width: 2.00, Height: 4.50},

	// Vehicles
	"bicycle":    {Width: 1.70, Height: 1.05},
	"car":        {Width: 1.80, Height: 1.50},
	"motorcycle": {Width: 2.00, Height: 1.10},
	"airplane":   {Width: 30.0, Height: 8.00},
	"bus":        {Width: 2.55, Height: 3.20},
	"train":      {Width: 3.00, Height: 4.00},
	"truck":      {Width: 2.50, Height: 3.00},
	"boat":       {Width: 3.00, Height: 1.50},

	// Street furniture
	"traffic light": {Width: 0.30, Height: 0.90},
	"fire hydrant":  {Width: 0.30, Height: 0.75},
	"stop sign":     {Width: 0.75, Height: 0.75},
	"parking meter": {Width: 0.30, Height: 1.20},
	"bench":         {Width: 1.50, Height: 0.85},
	"pole":          {Width: 0.15, Height: 2.50},
	"fence":         {Width: 2.00, Height: 1.20},
	"trash can":     {Width: 0.40, Height: 0.80},

	// Bags and wearables
	"backpack": {Width: 0.35, Height: 0.50},
	"umbrella": {Width: 1.00, Height: 0.80},
	"handbag":  {Width: 0.35, Height: 0.30},
	"tie":      {Width: 0.09, Height: 0.50},
	"suitcase": {Width: 0.50, Height: 0.70},

	// Sports equipment
	"frisbee":        {Width: 0.27, Height: 0.27},
	"skis":           {Width: 0.12, Height: 1.70},
	"snowboard":      {Width: 0.30, Height: 1.50},
	"sports ball":    {Width: 0.22, Height: 0.22},
	"kite":           {Width: 1.00, Height: 0.50},
	"baseball bat":   {Width: 0.07, Height: 0.85},
	"baseball glove": {Width: 0.25, Height: 0.30},
	"skateboard":     {Width: 0.80, Height: 0.15},
	"surfboard":      {Width: 0.55, Height: 2.10},
	"tennis racket":  {Width: 0.30, Height: 0.70},

	// Kitchenware and food
	"bottle":     {Width: 0.08, Height: 0.25},
	"wine glass": {Width: 0.08, Height: 0.20},
	"cup":        {Width: 0.09, Height: 0.12},
	"fork":       {Width: 0.03, Height: 0.20},
	"knife":      {Width: 0.03, Height: 0.25},
	"spoon":      {Width: 0.04, Height: 0.18},
	"bowl":       {Width: 0.18, Height: 0.08},
	"banana":     {Width: 0.04, Height: 0.20},
	"apple":      {Width: 0.08, Height: 0.08},
	"sandwich":   {Width: 0.15, Height: 0.08},
	"orange":     {Width: 0.08, Height: 0.08},
	"broccoli":   {Width: 0.15, Height: 0.15},
	"carrot":     {Width: 0.04, Height: 0.18},
	"hot dog":    {Width: 0.15, Height: 0.05},
	"pizza":      {Width: 0.32, Height: 0.04},
	"donut":      {Width: 0.10, Height: 0.05},
	"cake":       {Width: 0.25, Height: 0.12},

	// Furniture
	"chair":        {Width: 0.50, Height: 0.90},
	"couch":        {Width: 2.00, Height: 0.90},
	"potted plant": {Width: 0.30, Height: 0.55},
	"bed":          {Width: 1.60, Height: 0.60},
	"dining table": {Width: 1.50, Height: 0.75},
	"table":        {Width: 1.20, Height: 0.75},
	"desk":         {Width: 1.40, Height: 0.75},
	"toilet":       {Width: 0.45, Height: 0.75},
	"door":         {Width: 0.90, Height: 2.00},
	"window":       {Width: 1.20, Height: 1.50},
	"cabinet":      {Width: 0.90, Height: 1.80},
	"lamp":         {Width: 0.30, Height: 1.50},
	"stairs":       {Width: 1.00, Height: 1.80},

	// Electronics
	"tv":         {Width: 1.00, Height: 0.60},
	"laptop":     {Width: 0.35, Height: 0.24},
	"mouse":      {Width: 0.06, Height: 0.04},
	"remote":     {Width: 0.05, Height: 0.18},
	"keyboard":   {Width: 0.45, Height: 0.15},
	"cell phone": {Width: 0.08, Height: 0.16},
	"monitor":    {Width: 0.60, Height: 0.40},

	// Appliances
	"microwave":       {Width: 0.50, Height: 0.30},
	"oven":            {Width: 0.60, Height: 0.90},
	"toaster":         {Width: 0.30, Height: 0.20},
	"sink":            {Width: 0.60, Height: 0.25},
	"refrigerator":    {Width: 0.70, Height: 1.70},
	"washing machine": {Width: 0.60, Height: 0.85},

	// Household
	"book":       {Width: 0.15, Height: 0.22},
	"clock":      {Width: 0.30, Height: 0.30},
	"vase":       {Width: 0.15, Height: 0.30},
	"scissors":   {Width: 0.08, Height: 0.20},
	"teddy bear": {Width: 0.30, Height: 0.40},
	"hair drier": {Width: 0.08, Height: 0.25},
	"toothbrush": {Width: 0.02, Height: 0.18},
}
