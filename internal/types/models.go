package types

// Pilgrim is one itinerary record. Dates are ISO calendar dates (YYYY-MM-DD).
type Pilgrim struct {
	ID                         int    `json:"id"`
	BookingID                  string `json:"booking_id"`
	Gender                     string `json:"gender"`
	Nationality                string `json:"nationality"`
	Company                    string `json:"company,omitempty"`
	Package                    string `json:"package"`
	FlightContractType         string `json:"flight_contract_type,omitempty"`
	ArrivalCity                string `json:"arrival_city"`
	ArrivalPoint               string `json:"arrival_point,omitempty"`
	DepartureCity              string `json:"departure_city"`
	DeparturePoint             string `json:"departure_point,omitempty"`
	ArrivalHotel               string `json:"arrival_hotel"`
	MakkahHotel                string `json:"makkah_hotel,omitempty"`
	DepartureHotel             string `json:"departure_hotel"`
	AccommodationStatus        string `json:"accommodation_status,omitempty"`
	Age                        int    `json:"age"`
	ArrivalDate                string `json:"arrival_date"`
	ArrivalHotelCheckoutDate   string `json:"arrival_hotel_checkout_date"`
	DepartureCityArrivalDate   string `json:"departure_city_arrival_date"`
	DepartureHotelCheckoutDate string `json:"departure_hotel_checkout_date"`
	DepartureDate              string `json:"departure_date"`
	MakkahRoomType             string `json:"makkah_room_type"`
	MadinahRoomType            string `json:"madinah_room_type"`
}

// Room types used by the room breakdown KPIs.
const (
	RoomTriple = "triple"
	RoomDouble = "double"
	RoomQuad   = "quad"
)

// ChartPoint is the uniform output contract for every aggregated series.
type ChartPoint struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	IsSelected bool    `json:"isSelected"`
}
