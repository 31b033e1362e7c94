package ergast

// Wire model of the Ergast-compatible API. Field names match the JSON keys
// case-insensitively, so no tags are needed.

type Location struct {
	Lat      string
	Long     string
	Locality string
	Country  string
}

type Circuit struct {
	CircuitId   string
	Url         string
	CircuitName string
	Location    Location
}

type Driver struct {
	DriverId        string
	PermanentNumber string
	Code            string
	Url             string
	GivenName       string
	FamilyName      string
	DateOfBirth     string
	Nationality     string
}

type Constructor struct {
	ConstructorId string
	Url           string
	Name          string
	Nationality   string
}

type Time struct {
	Millis string
	Time   string
}

type AverageSpeed struct {
	Units string
	Speed string
}

type FastestLap struct {
	Rank         string
	Lap          string
	Time         Time
	AverageSpeed AverageSpeed
}

type Result struct {
	Number       string
	Position     string
	PositionText string
	Points       string
	Driver       Driver
	Constructor  Constructor
	Grid         string
	Laps         string
	Status       string
	Time         Time
	FastestLap   FastestLap
	Q1           string
	Q2           string
	Q3           string
}

type Session struct {
	Date string
	Time string
}

type Race struct {
	Season            string
	Round             string
	Url               string
	RaceName          string
	Circuit           Circuit
	Date              string
	Time              string
	FirstPractice     Session
	SecondPractice    Session
	ThirdPractice     Session
	Qualifying        Session
	Sprint            Session
	SprintQualifying  Session
	SprintShootout    Session
	Results           []Result
	SprintResults     []Result
	QualifyingResults []Result
}

type RaceTable struct {
	Season string
	Round  string
	Races  []Race
}

type CircuitTable struct {
	Season   string
	Circuits []Circuit
}

type Season struct {
	Season string
	Url    string
}

type SeasonTable struct {
	Seasons []Season
}

type MRData struct {
	Series       string
	Total        string
	RaceTable    RaceTable
	CircuitTable CircuitTable
	SeasonTable  SeasonTable
}

type Envelope struct {
	MRData MRData
}
