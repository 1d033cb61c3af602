package api

// IDValue is the {id, value} pair the listing service uses for enumerated fields.
type IDValue struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// RemoteDog is one record of the upstream adoption listing.
type RemoteDog struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	AlsoKnownAs    string   `json:"alsoKnownAs,omitempty"`
	Headline       string   `json:"headline,omitempty"`
	PrimaryBreed   IDValue  `json:"primaryBreed"`
	SecondaryBreed *IDValue `json:"secondaryBreed,omitempty"`
	Gender         IDValue  `json:"gender"`
	AgeGroup       IDValue  `json:"ageGroup"`
	Foster         *IDValue `json:"foster,omitempty"`
	Status         *IDValue `json:"status,omitempty"`
	SubStatus      *IDValue `json:"subStatus,omitempty"`
	Weight         *IDValue `json:"weight"`
	MainPhoto      string   `json:"mainPhoto"`
	IntakeDate     string   `json:"intakeDate"`
	StatusUpdated  string   `json:"statusUpdated,omitempty"`
}

// Photo is one uploaded image attached to a dog detail record.
type Photo struct {
	ID           int    `json:"id"`
	URL          string `json:"url"`
	UploadedDate string `json:"uploadedDate,omitempty"`
	Viewable     bool   `json:"viewable"`
}

// DogDetail is the single-dog record served by the detail endpoint.
type DogDetail struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	IntakeDate  string  `json:"intakeDate"`
	Headline    string  `json:"headline,omitempty"`
	Description string  `json:"description,omitempty"`
	MainPhotoID int     `json:"mainPhotoId"`
	Photos      []Photo `json:"photos"`
}

// MainPhotoURL resolves the declared main photo, falling back to the first one.
func (d DogDetail) MainPhotoURL() (string, bool) {
	for _, p := range d.Photos {
		if p.ID == d.MainPhotoID {
			return p.URL, true
		}
	}
	if len(d.Photos) > 0 {
		return d.Photos[0].URL, true
	}
	return "", false
}

// ListingPage is the envelope returned by the listing endpoint.
type ListingPage struct {
	Results []RemoteDog `json:"results"`
}

// LocalDogV0 is the annotation shape written before schema versioning existed.
type LocalDogV0 struct {
	IsFavorite *bool `json:"isFavorite,omitempty"`
	IsSeen     *bool `json:"isSeen,omitempty"`
}

// LocalDogsV0 maps stringified dog ids to v0 annotations.
type LocalDogsV0 map[string]LocalDogV0

// LocalDogV1 carries the display snapshot introduced by schema version 1.
type LocalDogV1 struct {
	ID          string   `json:"id"`
	Age         LocalAge `json:"age"`
	Breeds      []string `json:"breeds"`
	Gender      Gender   `json:"gender"`
	IsAvailable bool     `json:"isAvailable"`
	IsFavorite  bool     `json:"isFavorite"`
	IsNew       *bool    `json:"isNew,omitempty"`
	Name        string   `json:"name"`
	Photo       string   `json:"photo"`
	Weight      string   `json:"weight"`
}

// LocalDogsV1 maps stringified dog ids to v1 annotations.
type LocalDogsV1 map[string]LocalDogV1

// LocalDog is the current (v2) per-dog annotation: user flags plus the last
// known display snapshot. IsNew stays nil when the user never touched it.
type LocalDog struct {
	ID          string   `json:"id"`
	Age         LocalAge `json:"age"`
	Breeds      []string `json:"breeds"`
	Gender      Gender   `json:"gender"`
	IntakeDate  string   `json:"intakeDate"`
	IsAvailable bool     `json:"isAvailable"`
	IsFavorite  bool     `json:"isFavorite"`
	IsNew       *bool    `json:"isNew,omitempty"`
	Name        string   `json:"name"`
	Photo       string   `json:"photo"`
	Weight      string   `json:"weight"`
}

// LocalDogs maps stringified dog ids to current annotations.
type LocalDogs map[string]LocalDog

// SortDirection orders one sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortingValue is the persisted form of one user-chosen sort key.
type SortingValue struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// PersistedState is everything that survives a restart.
type PersistedState struct {
	DataVersion int            `json:"dataVersion"`
	Dogs        LocalDogs      `json:"dogs"`
	Sorting     []SortingValue `json:"sorting"`
}

// Bool returns a pointer to b, for optional flags.
func Bool(b bool) *bool { return &b }
