package client

import (
	"context"
	"net/http"
	"net/url"
)

// GetHubs lists all hubs registered to the user's account.
func (c *Client) GetHubs(ctx context.Context) ([]Hub, error) {
	var hubs []Hub
	if err := c.requestJSON(ctx, http.MethodGet, "/Hubs/GetUserHubs", nil, &hubs); err != nil {
		return nil, err
	}
	return hubs, nil
}

// GetHubZones lists the zones of a hub, each with its appliances.
func (c *Client) GetHubZones(ctx context.Context, hubID string) ([]Zone, error) {
	endpoint := "/Zones/GetZonesAndAppliancesForHubId?" + url.Values{"HubId": {hubID}}.Encode()
	var zones []Zone
	if err := c.requestJSON(ctx, http.MethodGet, endpoint, nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// GetZone fetches the details of a single zone.
func (c *Client) GetZone(ctx context.Context, hubID, zoneID string) (*Zone, error) {
	payload := map[string]string{"HubId": hubID, "ZoneId": zoneID}
	var zone Zone
	if err := c.requestJSON(ctx, http.MethodPost, "/Zones/GetZone", payload, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

// GetApplianceOverview fetches the real-time status of the given appliances.
func (c *Client) GetApplianceOverview(ctx context.Context, hubID string, applianceIDs []string) ([]ApplianceStatus, error) {
	payload := map[string]any{"HubId": hubID, "ApplianceIds": applianceIDs}
	var overview []ApplianceStatus
	if err := c.requestJSON(ctx, http.MethodPost, "/RemoteControl/GetApplianceOverview", payload, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

// GetUserContext fetches the logged-in user's profile.
func (c *Client) GetUserContext(ctx context.Context) (*UserContext, error) {
	var user UserContext
	if err := c.requestJSON(ctx, http.MethodGet, "/Identity/GetUserContext", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetApplianceFeatures fetches an appliance's current mode and schedule.
func (c *Client) GetApplianceFeatures(ctx context.Context, hubID, applianceID string) (*TimerModeSettings, error) {
	// TimerMode is a required request field but its value does not affect
	// what comes back.
	payload := map[string]any{"HubId": hubID, "ApplianceId": applianceID, "TimerMode": 0}
	var settings TimerModeSettings
	if err := c.requestJSON(ctx, http.MethodPost, "/RemoteControl/GetTimerModeDetailsForAppliance", payload, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetTimerMode switches an appliance's operation mode, carrying over the
// current schedule unchanged. The API expects the full settings object, so
// the current state is fetched first.
func (c *Client) SetTimerMode(ctx context.Context, hubID, applianceID string, mode int) error {
	current, err := c.GetApplianceFeatures(ctx, hubID, applianceID)
	if err != nil {
		return err
	}
	current.TimerMode = mode

	payload := map[string]any{"TimerModeSettings": current}
	return c.requestJSON(ctx, http.MethodPost, "/RemoteControl/SetTimerMode", payload, nil)
}

// SetApplianceMode applies mode settings such as Boost or Away to one or
// more appliances.
func (c *Client) SetApplianceMode(ctx context.Context, hubID string, applianceIDs []string, settings ApplianceModeSettings) error {
	payload := map[string]any{"Settings": settings, "HubId": hubID, "ApplianceIds": applianceIDs}
	return c.requestJSON(ctx, http.MethodPost, "/RemoteControl/SetApplianceMode", payload, nil)
}

// SetEcoStart enables or disables EcoStart for the given appliances.
func (c *Client) SetEcoStart(ctx context.Context, hubID string, applianceIDs []string, enable bool) error {
	payload := map[string]any{"Enable": enable, "HubId": hubID, "ApplianceIds": applianceIDs}
	return c.requestJSON(ctx, http.MethodPost, "/RemoteControl/SetEcoStart", payload, nil)
}

// SetOpenWindowDetection enables or disables open-window detection for the
// given appliances.
func (c *Client) SetOpenWindowDetection(ctx context.Context, hubID string, applianceIDs []string, enable bool) error {
	payload := map[string]any{"Enable": enable, "HubId": hubID, "ApplianceIds": applianceIDs}
	return c.requestJSON(ctx, http.MethodPost, "/RemoteControl/SetOpenWindowDetection", payload, nil)
}
