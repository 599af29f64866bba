package domain

// Station is an entry of the fixed picker list.
type Station struct {
	Name      string `json:"name"`
	Romanized string `json:"romanized"`
}

var ktxStations = []Station{
	{"서울", "Seoul"},
	{"용산", "Yongsan"},
	{"광명", "Gwangmyeong"},
	{"천안아산", "Cheonan-Asan"},
	{"오송", "Osong"},
	{"대전", "Daejeon"},
	{"김천(구미)", "Gimcheon(Gumi)"},
	{"동대구", "Dongdaegu"},
	{"신경주", "Singyeongju"},
	{"포항", "Pohang"},
	{"울산", "Ulsan"},
	{"부산", "Busan"},
}

// Stations returns the picker list in line order, optionally without exclude.
func Stations(exclude string) []Station {
	out := make([]Station, 0, len(ktxStations))
	for _, s := range ktxStations {
		if exclude != "" && s.Name == exclude {
			continue
		}
		out = append(out, s)
	}
	return out
}

// StationIndex is the position of name on the line, or -1 for free text.
func StationIndex(name string) int {
	for i, s := range ktxStations {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Romanize returns the latin name of a known station, or name unchanged.
func Romanize(name string) string {
	for _, s := range ktxStations {
		if s.Name == name {
			return s.Romanized
		}
	}
	return name
}

// Train types offered by the search screen.
var TrainTypes = []string{"KTX", "SRT", "ITX"}

const DefaultTrainType = "KTX"

// Seat profile vocabulary.
const (
	SeatClassGeneral = "일반실"
	SeatClassSpecial = "특실"

	SeatPositionWindow = "창가"
	SeatPositionAisle  = "바깥"

	SeatDirectionForward  = "순방향"
	SeatDirectionBackward = "역방향"

	StatusCompleted = "completed"
)

// PaymentMethods maps method id to display name.
var PaymentMethods = map[string]string{
	"kakaopay": "카카오페이",
	"card":     "신용/체크카드",
	"toss":     "토스페이",
	"naverpay": "네이버페이",
	"payco":    "PAYCO",
}

const DefaultPaymentMethod = "kakaopay"
