package science

// Field represents a science or engineering discipline a study or a
// collaborator contribution belongs to.
type Field string

const (
	Areology    Field = "areology"
	Astronomy   Field = "astronomy"
	Biology     Field = "biology"
	Botany      Field = "botany"
	Chemistry   Field = "chemistry"
	Computing   Field = "computing"
	Engineering Field = "engineering"
	Mathematics Field = "mathematics"
	Medicine    Field = "medicine"
	Meteorology Field = "meteorology"
	Physics     Field = "physics"
	Psychology  Field = "psychology"
)

// AllFields lists every known field in display order.
func AllFields() []Field {
	return []Field{
		Areology, Astronomy, Biology, Botany, Chemistry, Computing,
		Engineering, Mathematics, Medicine, Meteorology, Physics, Psychology,
	}
}

// fieldCodes maps each field to its three-letter study-name code.
var fieldCodes = map[Field]string{
	Areology:    "ARE",
	Astronomy:   "AST",
	Biology:     "BIO",
	Botany:      "BOT",
	Chemistry:   "CHE",
	Computing:   "COM",
	Engineering: "ENG",
	Mathematics: "MAT",
	Medicine:    "MED",
	Meteorology: "MET",
	Physics:     "PHY",
	Psychology:  "PSY",
}

// Code returns the short code used in generated study names.
func (f Field) Code() string {
	if code, ok := fieldCodes[f]; ok {
		return code
	}
	return "UNK"
}

// IsValid checks if the field is one of the known disciplines.
func (f Field) IsValid() bool {
	_, ok := fieldCodes[f]
	return ok
}

// IsEmpty checks if the field is unset.
func (f Field) IsEmpty() bool { return f == "" }

// String returns the string representation.
func (f Field) String() string { return string(f) }

// collaborativeFields lists, for each primary field, the other fields whose
// specialists may be invited onto a study. The table is directional: it is
// read from the study's primary field only.
var collaborativeFields = map[Field][]Field{
	Areology:    {Biology, Chemistry, Mathematics, Meteorology, Physics},
	Astronomy:   {Chemistry, Computing, Mathematics, Physics},
	Biology:     {Botany, Chemistry, Mathematics, Medicine},
	Botany:      {Biology, Chemistry, Medicine},
	Chemistry:   {Biology, Mathematics},
	Computing:   {Astronomy, Engineering, Mathematics, Physics},
	Engineering: {Chemistry, Computing, Mathematics, Physics},
	Mathematics: {Astronomy, Computing, Engineering, Physics},
	Medicine:    {Biology, Botany, Chemistry, Mathematics, Psychology},
	Meteorology: {Areology, Chemistry, Mathematics, Physics},
	Physics:     {Astronomy, Computing, Engineering, Mathematics},
	Psychology:  {Biology, Chemistry, Medicine},
}

// CanCollaborate reports whether a specialist in other may contribute to a
// study whose primary field is primary. A field always collaborates with
// itself.
func CanCollaborate(primary, other Field) bool {
	if primary == other {
		return true
	}
	for _, f := range collaborativeFields[primary] {
		if f == other {
			return true
		}
	}
	return false
}

// CollaborativeFields returns the fields declared collaborative with the
// given primary field, excluding the field itself.
func CollaborativeFields(primary Field) []Field {
	out := make([]Field, len(collaborativeFields[primary]))
	copy(out, collaborativeFields[primary])
	return out
}
