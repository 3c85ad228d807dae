package httpServices

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// searchResult is one entry of the Vietmap Search API v3 response.
type searchResult struct {
	RefID   string `json:"ref_id"`
	Display string `json:"display"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// placeDetail is the Vietmap Place API v3 response.
type placeDetail struct {
	Display string  `json:"display"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
