package reservation

// Gender is one of the three accepted values for a passenger.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// Age thresholds from spec.md's data model.
const (
	MinAgeForBerth    = 5
	SeniorCitizenAge  = 60
)

// PassengerInput is the caller-supplied shape for one passenger in a
// booking request, validated and normalized by the Allocator before any
// state mutation happens.
type PassengerInput struct {
	Name             string
	Age              int
	Gender           Gender
	IsParent         bool
	ParentIdentifier string
}

// Passenger is immutable except for its berth/queue assignment, which the
// Allocator and Promoter mutate while the Engine's lock is held.
type Passenger struct {
	ID               int
	TicketID         int
	Name             string
	Age              int
	Gender           Gender
	IsParent         bool
	ParentIdentifier string

	// Berth is nil until the passenger holds a confirmed or RAC berth.
	// A child never receives a value here.
	Berth *BerthID
}

// IsChild reports whether the passenger is excluded from berth allocation
// entirely (spec.md I4).
func (p *Passenger) IsChild() bool { return p.Age < MinAgeForBerth }

// IsSenior reports P_SENIOR eligibility.
func (p *Passenger) IsSenior() bool { return p.Age >= SeniorCitizenAge }
