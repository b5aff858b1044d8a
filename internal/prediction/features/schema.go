// Package features implements the feature transform: the boundary between a
// raw lead record and the fixed-width numeric vector the classifier expects.
package features

// Kind classifies a recognized input field.
type Kind int

const (
	// Numeric fields are imputed with the training-time median and scaled
	// with the fitted scaler parameters.
	Numeric Kind = iota
	// Categorical fields are one-hot encoded against the training vocabulary.
	Categorical
)

// SentinelCategory is the fallback for categorical fields with no specific
// default of their own.
const SentinelCategory = "Not Specified"

// Field describes one recognized input field: its exact human-label name, its
// kind, and the fallback category used when the field is absent. Numeric
// fields carry no fallback here; their imputation value lives in the fitted
// preprocessor artifact.
type Field struct {
	Name     string
	Kind     Kind
	Fallback string
}

// Schema enumerates the recognized lead record fields in training order.
// Keys outside this list are ignored by the transform; values of the wrong
// type fail validation at the boundary instead of propagating into the
// classifier.
var Schema = []Field{
	{Name: "Lead Origin", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "Lead Source", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "Do Not Email", Kind: Categorical, Fallback: "No"},
	{Name: "Do Not Call", Kind: Categorical, Fallback: "No"},
	{Name: "TotalVisits", Kind: Numeric},
	{Name: "Total Time Spent on Website", Kind: Numeric},
	{Name: "Page Views Per Visit", Kind: Numeric},
	{Name: "Last Activity", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "Country", Kind: Categorical, Fallback: "India"},
	{Name: "Specialization", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "What is your current occupation", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "Search", Kind: Categorical, Fallback: "No"},
	{Name: "Newspaper Article", Kind: Categorical, Fallback: "No"},
	{Name: "X Education Forums", Kind: Categorical, Fallback: "No"},
	{Name: "Newspaper", Kind: Categorical, Fallback: "No"},
	{Name: "Digital Advertisement", Kind: Categorical, Fallback: "No"},
	{Name: "Through Recommendations", Kind: Categorical, Fallback: "No"},
	{Name: "Tags", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "Lead Quality", Kind: Categorical, Fallback: SentinelCategory},
	{Name: "City", Kind: Categorical, Fallback: "Mumbai"},
	{Name: "A free copy of Mastering The Interview", Kind: Categorical, Fallback: "No"},
	{Name: "Last Notable Activity", Kind: Categorical, Fallback: "Modified"},
}

var schemaByName = func() map[string]Field {
	m := make(map[string]Field, len(Schema))
	for _, f := range Schema {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the schema entry for a field name.
func Lookup(name string) (Field, bool) {
	f, ok := schemaByName[name]
	return f, ok
}

// FieldNames returns the recognized field names in schema order.
func FieldNames() []string {
	names := make([]string, len(Schema))
	for i, f := range Schema {
		names[i] = f.Name
	}
	return names
}
