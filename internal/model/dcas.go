package model

// DCASType is one of the four behavioral categories an answer option maps to
type DCASType string

const (
	TypeDriver     DCASType = "D"
	TypeConnector  DCASType = "C"
	TypeAnchor     DCASType = "A"
	TypeStrategist DCASType = "S"
)

// DCASTypes is the fixed enumeration order. Ranking ties resolve in this order.
var DCASTypes = [4]DCASType{TypeDriver, TypeConnector, TypeAnchor, TypeStrategist}

// Valid reports whether t is one of D, C, A, S
func (t DCASType) Valid() bool {
	switch t {
	case TypeDriver, TypeConnector, TypeAnchor, TypeStrategist:
		return true
	}
	return false
}

// Name returns the display name of the type
func (t DCASType) Name() string {
	switch t {
	case TypeDriver:
		return "Driver"
	case TypeConnector:
		return "Connector"
	case TypeAnchor:
		return "Anchor"
	case TypeStrategist:
		return "Strategist"
	}
	return string(t)
}

// DCASCounts holds one integer per type
type DCASCounts struct {
	D int `json:"D" bson:"D"`
	C int `json:"C" bson:"C"`
	A int `json:"A" bson:"A"`
	S int `json:"S" bson:"S"`
}

// Get returns the value stored for t
func (c DCASCounts) Get(t DCASType) int {
	switch t {
	case TypeDriver:
		return c.D
	case TypeConnector:
		return c.C
	case TypeAnchor:
		return c.A
	case TypeStrategist:
		return c.S
	}
	return 0
}

// Add increments the value stored for t by n. Unknown types are ignored.
func (c *DCASCounts) Add(t DCASType, n int) {
	switch t {
	case TypeDriver:
		c.D += n
	case TypeConnector:
		c.C += n
	case TypeAnchor:
		c.A += n
	case TypeStrategist:
		c.S += n
	}
}

// Total is the sum over all four types
func (c DCASCounts) Total() int {
	return c.D + c.C + c.A + c.S
}

// ScoreRange is the Low/Moderate/High banding of a raw count
type ScoreRange string

const (
	RangeLow      ScoreRange = "Low"
	RangeModerate ScoreRange = "Moderate"
	RangeHigh     ScoreRange = "High"
)

// DCASRanges holds one band per type
type DCASRanges struct {
	D ScoreRange `json:"D"`
	C ScoreRange `json:"C"`
	A ScoreRange `json:"A"`
	S ScoreRange `json:"S"`
}
