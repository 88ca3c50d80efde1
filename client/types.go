package client

// Field names match the vendor's PascalCase JSON wire format.

// Hub is a physical gateway device grouping zones and appliances for one
// household. The API reports the display name as HubName.
type Hub struct {
	HubID        string `json:"HubId"`
	Name         string `json:"HubName"`
	FriendlyName string `json:"FriendlyName"`
}

// DisplayName returns the best available human-readable name for the hub.
func (h Hub) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	if h.FriendlyName != "" {
		return h.FriendlyName
	}
	return "Unknown Hub"
}

// Zone is a heating area within a hub.
type Zone struct {
	ZoneID     string      `json:"ZoneId"`
	ZoneName   string      `json:"ZoneName"`
	HubID      string      `json:"HubId"`
	ZoneType   string      `json:"ZoneType"`
	Appliances []Appliance `json:"Appliances"`
}

// Appliance is a controllable heating unit within a zone.
type Appliance struct {
	ApplianceID      string `json:"ApplianceId"`
	ApplianceType    string `json:"ApplianceType"`
	ApplianceModel   string `json:"ApplianceModel,omitempty"`
	ZoneID           string `json:"ZoneId"`
	FriendlyName     string `json:"FriendlyName"`
	ZoneName         string `json:"ZoneName"`
	Icon             string `json:"Icon,omitempty"`
	IconColor        string `json:"IconColor,omitempty"`
	InstallationDate string `json:"InstallationDate,omitempty"`
	HasConnectivity  *bool  `json:"HasConnectivity,omitempty"`
}

// TimerPeriod is one slot of an appliance's weekly schedule. Times are kept
// as HH:MM:SS strings, matching the wire format.
type TimerPeriod struct {
	DayOfWeek   int     `json:"DayOfWeek"`
	StartTime   string  `json:"StartTime"`
	EndTime     string  `json:"EndTime"`
	Temperature float64 `json:"Temperature"`
}

// TimerModeSettings carries an appliance's current mode and schedule.
type TimerModeSettings struct {
	HubID        string        `json:"HubId"`
	ApplianceID  string        `json:"ApplianceId"`
	TimerMode    int           `json:"TimerMode"`
	TimerPeriods []TimerPeriod `json:"TimerPeriods"`
}

// UserContext is the logged-in user's profile.
type UserContext struct {
	ID           string `json:"Id"`
	EmailAddress string `json:"EmailAddress,omitempty"`
	Name         string `json:"Name,omitempty"`
}

// ApplianceStatus is the real-time status of an appliance as returned by
// GetApplianceOverview.
type ApplianceStatus struct {
	HubID                       string   `json:"HubId"`
	ApplianceID                 string   `json:"ApplianceId"`
	ZoneID                      string   `json:"ZoneId"`
	StatusTwo                   *int     `json:"StatusTwo,omitempty"`
	ApplianceModes              *int     `json:"ApplianceModes,omitempty"`
	RoomTemperature             *float64 `json:"RoomTemperature,omitempty"`
	ActiveSetPointTemperature   *int     `json:"ActiveSetPointTemperature,omitempty"`
	NormalTemperature           *float64 `json:"NormalTemperature,omitempty"`
	AwayDateTime                string   `json:"AwayDateTime,omitempty"`
	AwayTemperature             *float64 `json:"AwayTemperature,omitempty"`
	BoostDuration               *int     `json:"BoostDuration,omitempty"`
	BoostTemperature            *float64 `json:"BoostTemperature,omitempty"`
	OpenWindowEnabled           *bool    `json:"OpenWindowEnabled,omitempty"`
	EcoStartEnabled             *bool    `json:"EcoStartEnabled,omitempty"`
	SetbackEnabled              *bool    `json:"SetbackEnabled,omitempty"`
	SetbackEnabledInStatusFrame *bool    `json:"SetbackEnabledInStatusFrame,omitempty"`
	SetbackTemperature          *float64 `json:"SetbackTemperature,omitempty"`
	ComfortStatus               *bool    `json:"ComfortStatus,omitempty"`
	AvailableHotWater           *float64 `json:"AvailableHotWater,omitempty"`
	LockStatus                  *int     `json:"LockStatus,omitempty"`
	ErrorCode                   string   `json:"ErrorCode,omitempty"`
	WarningCode                 string   `json:"WarningCode,omitempty"`
}

// ApplianceModeSettings controls appliance modes like Boost or Away.
type ApplianceModeSettings struct {
	ApplianceModes int     `json:"ApplianceModes"`
	Status         int     `json:"Status"`
	Temperature    float64 `json:"Temperature"`
	Time           int     `json:"Time"`
	Date           string  `json:"Date"`
	StatusTwo      int     `json:"StatusTwo"`
	NumberOfDays   int     `json:"NumberOfDays"`
	Frequency      int     `json:"Frequency"`
}

// NewApplianceModeSettings returns mode settings with the wire defaults
// filled in.
func NewApplianceModeSettings(mode, status int, temperature float64) ApplianceModeSettings {
	return ApplianceModeSettings{
		ApplianceModes: mode,
		Status:         status,
		Temperature:    temperature,
		Date:           "0001-01-01T00:00:00",
	}
}
