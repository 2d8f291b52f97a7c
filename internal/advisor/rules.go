package advisor

import (
	"strings"

	"github.com/skylens/weather-assistant/internal/weather"
)

// Rule-based fallbacks. Thresholds and the branch priority order are fixed:
// the travel and activity tables check condition text before wind and
// visibility, so a rainy high-wind day reports the rain message.

func clothingRules(record *weather.WeatherRecord) AdviceResult {
	temp := record.Current.Temperature
	condition := strings.ToLower(record.Current.Condition)

	var advice string
	switch {
	case temp < 0:
		advice = "Bundle up! Wear multiple layers, a heavy coat, warm hat, gloves, and insulated boots."
	case temp < 10:
		advice = "Dress warmly with a jacket, long pants, and closed-toe shoes. Consider a light scarf or hat."
	case temp < 20:
		advice = "Layer up! A light jacket or sweater over a t-shirt should be perfect."
	case temp < 25:
		advice = "Comfortable weather! Light pants and a t-shirt or light long sleeves."
	case temp < 30:
		advice = "Warm day! Shorts, t-shirt, and comfortable shoes. Stay hydrated!"
	default:
		advice = "Very hot! Lightweight, breathable clothing, sun hat, and plenty of sunscreen."
	}

	if strings.Contains(condition, "rain") {
		advice += " Bring an umbrella or rain jacket."
	}

	return AdviceResult{Advice: advice, Confidence: ConfidenceMedium, Source: SourceRules}
}

func travelRules(record *weather.WeatherRecord) AdviceResult {
	condition := strings.ToLower(record.Current.Condition)
	wind := record.Current.Wind.Speed

	// Missing visibility counts as zero and lands in the reduced-visibility
	// branch, matching the presentation the assistant always shipped with.
	visibility := 0
	if record.Current.Visibility != nil {
		visibility = *record.Current.Visibility
	}

	advice := "Current conditions are "
	switch {
	case strings.Contains(condition, "clear") && wind < 20:
		advice += "excellent for travel. Great visibility and calm conditions."
	case strings.Contains(condition, "rain"):
		advice += "wet. Drive carefully, use headlights, and allow extra time."
	case strings.Contains(condition, "snow"):
		advice += "snowy. Consider winter tires, carry emergency supplies, and drive slowly."
	case wind > 30:
		advice += "windy. Be cautious with high-profile vehicles and outdoor activities."
	case visibility < 5:
		advice += "showing reduced visibility. Drive with caution and use fog lights."
	default:
		advice += "generally good for travel with normal precautions."
	}

	return AdviceResult{Advice: advice, Confidence: ConfidenceMedium, Source: SourceRules}
}

func healthRules(record *weather.WeatherRecord) AdviceResult {
	temp := record.Current.Temperature
	humidity := record.Current.Humidity
	condition := strings.ToLower(record.Current.Condition)

	var advice string
	switch {
	case temp > 30:
		advice = "High temperatures! Stay hydrated, seek shade, and avoid prolonged sun exposure."
	case temp < 0:
		advice = "Cold weather! Protect exposed skin, stay dry, and warm up gradually when coming indoors."
	case humidity > 80:
		advice = "High humidity! Take it easy during physical activities and stay hydrated."
	default:
		advice = "Pleasant conditions! Perfect weather for outdoor activities and exercise."
	}

	if strings.Contains(condition, "allergens") || humidity > 70 {
		advice += " Allergy sufferers may want to limit outdoor time."
	}

	return AdviceResult{Advice: advice, Confidence: ConfidenceMedium, Source: SourceRules}
}

func activityRules(record *weather.WeatherRecord) AdviceResult {
	temp := record.Current.Temperature
	condition := strings.ToLower(record.Current.Condition)

	var advice string
	switch {
	case strings.Contains(condition, "clear") && temp > 15 && temp < 25:
		advice = "Perfect weather for hiking, cycling, or picnicking. Great for outdoor sports and sightseeing."
	case strings.Contains(condition, "rain"):
		advice = "Rainy day activities: visit museums, indoor shopping, cozy cafes, or enjoy a good book at home."
	case temp > 25:
		advice = "Hot weather fun: swimming, water sports, early morning walks, or indoor activities during peak heat."
	case temp < 10:
		advice = "Cool weather activities: indoor sports, museums, warm cafes, or brisk walks with proper clothing."
	default:
		advice = "Mild conditions are great for walking, shopping, casual outdoor dining, or light exercise."
	}

	return AdviceResult{Advice: advice, Confidence: ConfidenceMedium, Source: SourceRules}
}
