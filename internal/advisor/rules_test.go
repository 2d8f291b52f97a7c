package advisor

import (
	"strings"
	"testing"

	"github.com/skylens/weather-assistant/internal/weather"
)

func ruleRecord(temp int, condition string, humidity, windSpeed int, visibility *int) *weather.WeatherRecord {
	return &weather.WeatherRecord{
		Location: weather.Location{Name: "Berlin"},
		Current: weather.CurrentConditions{
			Temperature: temp,
			Condition:   condition,
			Description: strings.ToLower(condition),
			Humidity:    humidity,
			Visibility:  visibility,
			Wind:        weather.Wind{Speed: windSpeed},
		},
	}
}

func intPtr(v int) *int { return &v }

func TestClothingRules(t *testing.T) {
	cases := []struct {
		temp      int
		condition string
		contains  string
	}{
		{-5, "Clear", "Bundle up"},
		{5, "Clouds", "Dress warmly"},
		{15, "Clouds", "Layer up"},
		{22, "Clear", "Comfortable weather"},
		{27, "Clear", "Warm day"},
		{33, "Clear", "Very hot"},
	}

	for _, tc := range cases {
		result := clothingRules(ruleRecord(tc.temp, tc.condition, 50, 10, intPtr(10)))
		if !strings.Contains(result.Advice, tc.contains) {
			t.Errorf("temp %d: expected advice containing %q, got %q", tc.temp, tc.contains, result.Advice)
		}
		if result.Confidence != ConfidenceMedium || result.Source != SourceRules {
			t.Errorf("temp %d: unexpected confidence/source %s/%s", tc.temp, result.Confidence, result.Source)
		}
	}
}

func TestClothingRulesAppendsRainNote(t *testing.T) {
	result := clothingRules(ruleRecord(22, "light rain", 50, 10, intPtr(10)))
	if !strings.Contains(result.Advice, "Comfortable weather") {
		t.Errorf("Expected base advice to be kept, got %q", result.Advice)
	}
	if !strings.Contains(result.Advice, "umbrella") {
		t.Errorf("Expected umbrella note appended, got %q", result.Advice)
	}
}

func TestTravelRules(t *testing.T) {
	cases := []struct {
		name       string
		condition  string
		wind       int
		visibility *int
		contains   string
	}{
		{"clear and calm", "clear sky", 10, intPtr(10), "excellent for travel"},
		{"rain wins over wind", "heavy rain", 40, intPtr(10), "wet"},
		{"snow", "light snow", 10, intPtr(10), "snowy"},
		{"high wind", "Clouds", 35, intPtr(10), "windy"},
		{"low visibility", "Clouds", 10, intPtr(3), "reduced visibility"},
		{"missing visibility counts as zero", "Clouds", 10, nil, "reduced visibility"},
		{"default", "Clouds", 10, intPtr(10), "generally good"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := travelRules(ruleRecord(20, tc.condition, 50, tc.wind, tc.visibility))
			if !strings.Contains(result.Advice, tc.contains) {
				t.Errorf("Expected advice containing %q, got %q", tc.contains, result.Advice)
			}
		})
	}
}

func TestHealthRules(t *testing.T) {
	cases := []struct {
		name     string
		temp     int
		humidity int
		contains string
	}{
		{"heat", 31, 50, "High temperatures"},
		{"cold", -1, 50, "Cold weather"},
		{"humid", 20, 85, "High humidity"},
		{"pleasant", 20, 50, "Pleasant conditions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := healthRules(ruleRecord(tc.temp, "Clouds", tc.humidity, 10, intPtr(10)))
			if !strings.Contains(result.Advice, tc.contains) {
				t.Errorf("Expected advice containing %q, got %q", tc.contains, result.Advice)
			}
		})
	}
}

func TestHealthRulesAllergyNote(t *testing.T) {
	// humidity 75 takes the pleasant branch but still gets the allergy note
	result := healthRules(ruleRecord(20, "Clouds", 75, 10, intPtr(10)))
	if !strings.Contains(result.Advice, "Pleasant conditions") {
		t.Errorf("Expected pleasant branch, got %q", result.Advice)
	}
	if !strings.Contains(result.Advice, "Allergy sufferers") {
		t.Errorf("Expected allergy note, got %q", result.Advice)
	}

	// humidity 85 combines the humidity caution with the allergy note
	result = healthRules(ruleRecord(20, "Clouds", 85, 10, intPtr(10)))
	if !strings.Contains(result.Advice, "High humidity") || !strings.Contains(result.Advice, "Allergy sufferers") {
		t.Errorf("Expected humidity caution plus allergy note, got %q", result.Advice)
	}
}

func TestActivityRules(t *testing.T) {
	cases := []struct {
		name      string
		temp      int
		condition string
		contains  string
	}{
		{"clear and mild", 20, "clear sky", "hiking"},
		{"rain", 20, "light rain", "museums"},
		{"hot", 30, "Clouds", "swimming"},
		{"cold", 5, "Clouds", "Cool weather"},
		{"default", 12, "Clouds", "Mild conditions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := activityRules(ruleRecord(tc.temp, tc.condition, 50, 10, intPtr(10)))
			if !strings.Contains(result.Advice, tc.contains) {
				t.Errorf("Expected advice containing %q, got %q", tc.contains, result.Advice)
			}
		})
	}
}
