package api

// RemoteAge is the age-group vocabulary of the listing service.
type RemoteAge string

// LocalAge is the compact age range shown to users.
type LocalAge string

// Gender as reported by the listing service.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

const (
	AgeBaby   RemoteAge = "Baby (Under 5 Months)"
	AgePuppy  RemoteAge = "Puppy (5 months - 2 Years)"
	AgeYouth  RemoteAge = "Youth (2 - 5 Years)"
	AgeAdult  RemoteAge = "Adult (5 - 9 Years)"
	AgeSenior RemoteAge = "Senior (9+ Years)"
)

const (
	AgeUnder5Months  LocalAge = "< 5 mo"
	Age5MonthsTo2Yrs LocalAge = "5 mo - 2 yr"
	Age2To5Yrs       LocalAge = "2 - 5 yr"
	Age5To9Yrs       LocalAge = "5 - 9 yr"
	AgeOver9Yrs      LocalAge = "> 9 yr"
)

// Ages lists local age ranges youngest first; the index is the sort rank.
var Ages = []LocalAge{
	AgeUnder5Months,
	Age5MonthsTo2Yrs,
	Age2To5Yrs,
	Age5To9Yrs,
	AgeOver9Yrs,
}

// AgesMap translates the remote age group into its local range.
var AgesMap = map[RemoteAge]LocalAge{
	AgeBaby:   AgeUnder5Months,
	AgePuppy:  Age5MonthsTo2Yrs,
	AgeYouth:  Age2To5Yrs,
	AgeAdult:  Age5To9Yrs,
	AgeSenior: AgeOver9Yrs,
}

// UnknownValue stands in for a weight the listing did not report.
const UnknownValue = "(unknown)"

// Weights lists weight classes lightest first; the index is the sort rank.
var Weights = []string{
	"Small",
	"Medium",
	"Large",
	UnknownValue,
}

// Keys under which the persisted state lives.
const (
	KeyDogs        = "dogs:dogs"
	KeySorting     = "dogs:sorting"
	KeyDataVersion = "dogs:dataVersion"
)

// DefaultSorting is used until the user saves a sort preference.
var DefaultSorting = []SortingValue{
	{Key: "isNew", Direction: SortAsc},
	{Key: "name", Direction: SortAsc},
}

// AgeRank returns the position of age in Ages, or len(Ages) when unknown.
func AgeRank(age LocalAge) int {
	for i, a := range Ages {
		if a == age {
			return i
		}
	}
	return len(Ages)
}

// WeightRank returns the position of weight in Weights, or len(Weights) when unknown.
func WeightRank(weight string) int {
	for i, w := range Weights {
		if w == weight {
			return i
		}
	}
	return len(Weights)
}
