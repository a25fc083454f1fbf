package identity

// PatronData is what an identity provider verified about a patron.
type PatronData struct {
	PermanentID             string
	AuthorizationIdentifier string
	ExternalType            string // patron category, may be empty
	PersonalName            string
	Complete                bool
}

// Patron categories used as external types.
const (
	CategoryElementary = "E"
	CategoryMiddle     = "M"
	CategoryHigh       = "H"
	CategoryAdult      = "A"
)

var gradeCategories = map[string]string{
	"Kindergarten": CategoryElementary,
	"K":            CategoryElementary,
	"1":            CategoryElementary,
	"2":            CategoryElementary,
	"3":            CategoryElementary,
	"4":            CategoryMiddle,
	"5":            CategoryMiddle,
	"6":            CategoryMiddle,
	"7":            CategoryMiddle,
	"8":            CategoryMiddle,
	"9":            CategoryHigh,
	"10":           CategoryHigh,
	"11":           CategoryHigh,
	"12":           CategoryHigh,
}

// ClassifyGrade maps a student's grade to a patron category. Unknown grades (e.g. "PreKindergarten")
// have no category and yield "".
func ClassifyGrade(grade string) string {
	return gradeCategories[grade]
}
