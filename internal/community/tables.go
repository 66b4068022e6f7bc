package community

// User is a sample community member.
type User struct {
	ID    string
	Name  string
	IsPro bool
}

// Component is a fork or shock product.
type Component struct {
	Brand string
	Model string
	Year  string
}

// Bike is a frame make and model.
type Bike struct {
	Make  string
	Model string
}

// TrailSpot is a well-known riding location.
type TrailSpot struct {
	Name      string
	Lat       float64
	Lng       float64
	TrailType string
}

// Category is a riding style that determines which frames fit a suspension setup.
type Category string

const (
	Downhill Category = "downhill"
	Enduro   Category = "enduro"
	Trail    Category = "trail"
)

var users = []User{
	{ID: "user1", Name: "Sarah_MTB", IsPro: true},
	{ID: "user2", Name: "Jake_Rider", IsPro: true},
	{ID: "user3", Name: "Alex_DH", IsPro: false},
	{ID: "user4", Name: "Emma_Trails", IsPro: true},
	{ID: "user5", Name: "Chris_Enduro", IsPro: false},
	{ID: "user6", Name: "Taylor_Bike", IsPro: true},
	{ID: "user7", Name: "Jordan_MTB", IsPro: false},
	{ID: "user8", Name: "Sam_Shredder", IsPro: true},
}

var forks = []Component{
	{Brand: "Fox", Model: "38 Factory", Year: "2023"},
	{Brand: "Fox", Model: "36 Factory", Year: "2023"},
	{Brand: "Fox", Model: "40 Factory", Year: "2022"},
	{Brand: "RockShox", Model: "ZEB Ultimate", Year: "2023"},
	{Brand: "RockShox", Model: "Lyrik Ultimate", Year: "2023"},
	{Brand: "RockShox", Model: "Pike Ultimate", Year: "2022"},
	{Brand: "Ohlins", Model: "RXF38 M.2", Year: "2023"},
	{Brand: "Manitou", Model: "Mezzer Pro", Year: "2022"},
}

var shocks = []Component{
	{Brand: "Fox", Model: "DHX2 Factory", Year: "2023"},
	{Brand: "Fox", Model: "Float X2 Factory", Year: "2023"},
	{Brand: "Fox", Model: "Float DPX2 Factory", Year: "2022"},
	{Brand: "RockShox", Model: "Super Deluxe Ultimate", Year: "2023"},
	{Brand: "RockShox", Model: "Super Deluxe Select+", Year: "2022"},
	{Brand: "Ohlins", Model: "TTX Air", Year: "2023"},
	{Brand: "Cane Creek", Model: "DBair IL", Year: "2022"},
}

var bikes = map[Category][]Bike{
	Enduro: {
		{Make: "Santa Cruz", Model: "Megatower"},
		{Make: "Specialized", Model: "Enduro"},
		{Make: "Trek", Model: "Slash"},
		{Make: "Yeti", Model: "SB165"},
		{Make: "Pivot", Model: "Firebird"},
		{Make: "Transition", Model: "Sentinel"},
		{Make: "Evil", Model: "Wreckoning"},
		{Make: "Ibis", Model: "Mojo HD5"},
	},
	Trail: {
		{Make: "Ibis", Model: "Ripmo"},
		{Make: "Santa Cruz", Model: "Bronson"},
		{Make: "Specialized", Model: "Stumpjumper"},
		{Make: "Trek", Model: "Fuel EX"},
		{Make: "Yeti", Model: "SB140"},
		{Make: "Pivot", Model: "Switchblade"},
		{Make: "Canyon", Model: "Spectral"},
		{Make: "Giant", Model: "Trance"},
	},
	Downhill: {
		{Make: "Santa Cruz", Model: "V10"},
		{Make: "YT", Model: "TUES"},
		{Make: "Specialized", Model: "Demo"},
		{Make: "Trek", Model: "Session"},
		{Make: "Commencal", Model: "Supreme"},
		{Make: "Norco", Model: "Aurum"},
		{Make: "Giant", Model: "Glory"},
	},
}

var trails = []TrailSpot{
	{Name: "Whistler A-Line", Lat: 50.1163, Lng: -122.9574, TrailType: "bike_park"},
	{Name: "Moab Whole Enchilada", Lat: 38.5733, Lng: -109.5498, TrailType: "enduro"},
	{Name: "Finale Ligure DH", Lat: 44.1697, Lng: 8.3430, TrailType: "dh"},
	{Name: "Squamish Half Nelson", Lat: 49.7016, Lng: -123.1558, TrailType: "enduro"},
	{Name: "Pisgah Black Mountain", Lat: 35.5951, Lng: -82.5515, TrailType: "all_mountain"},
	{Name: "Sedona Hangover", Lat: 34.8697, Lng: -111.7610, TrailType: "enduro"},
	{Name: "Queenstown Skyline", Lat: -45.0312, Lng: 168.6626, TrailType: "bike_park"},
	{Name: "Northstar Flow Trail", Lat: 39.2774, Lng: -120.1214, TrailType: "bike_park"},
}

var riderWeights = []string{"150 lbs", "160 lbs", "170 lbs", "180 lbs", "190 lbs", "200 lbs"}

var notes = []string{
	"Works great for fast, rough sections. Very stable at speed.",
	"Dialed in for tech climbing and descending. Plush but supportive.",
	"Perfect for jump lines and flow trails. Tons of mid-stroke support.",
	"Aggressive setup for steep, chunky terrain. Not for XC!",
	"Balanced setup for all-day riding. Comfortable but efficient.",
	"Race setup - firm compression, fast rebound. For smooth tracks.",
	"Park setup with extra volume spacers for big hits.",
	"Trail setup optimized for mixed terrain and long rides.",
}
