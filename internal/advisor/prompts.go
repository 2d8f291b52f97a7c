package advisor

import (
	"fmt"

	"github.com/skylens/weather-assistant/internal/weather"
)

const (
	clothingSystemPrompt = "You are a weather-aware fashion assistant. Provide practical clothing advice based on weather conditions."
	travelSystemPrompt   = "You are a travel advisor specializing in weather-related travel tips."
	healthSystemPrompt   = "You are a health advisor providing weather-related health tips. Focus on practical advice."
	activitySystemPrompt = "You are an activity planner who suggests weather-appropriate activities."
	chatSystemPrompt     = "You are a helpful weather AI assistant. Answer questions about weather and provide practical advice."
)

func buildClothingPrompt(record *weather.WeatherRecord) string {
	cur := record.Current
	return fmt.Sprintf(
		"Current weather in %s: %d°C, %s, humidity %d%%, wind %d km/h. What should someone wear today? Provide practical, specific clothing recommendations in 2-3 sentences.",
		record.Location.Name, cur.Temperature, cur.Description, cur.Humidity, cur.Wind.Speed)
}

func buildTravelPrompt(record *weather.WeatherRecord) string {
	cur := record.Current
	visibility := "unknown"
	if cur.Visibility != nil {
		visibility = fmt.Sprintf("%dkm", *cur.Visibility)
	}
	return fmt.Sprintf(
		"Weather conditions in %s: %d°C, %s, visibility %s, wind %d km/h. What travel tips should someone consider for these conditions? Focus on practical advice in 2-3 sentences.",
		record.Location.Name, cur.Temperature, cur.Description, visibility, cur.Wind.Speed)
}

func buildHealthPrompt(record *weather.WeatherRecord) string {
	cur := record.Current
	return fmt.Sprintf(
		"Current conditions in %s: %d°C, %s, humidity %d%%, UV and air quality considerations. What health-related advice should people consider? Provide practical tips in 2-3 sentences.",
		record.Location.Name, cur.Temperature, cur.Description, cur.Humidity)
}

func buildActivityPrompt(record *weather.WeatherRecord) string {
	cur := record.Current
	return fmt.Sprintf(
		"Weather in %s: %d°C, %s, wind %d km/h. What activities would be enjoyable and suitable for these conditions? Suggest 2-3 specific activities with brief explanations.",
		record.Location.Name, cur.Temperature, cur.Description, cur.Wind.Speed)
}

func buildChatPrompt(message string, record *weather.WeatherRecord) string {
	cur := record.Current
	return fmt.Sprintf(
		"User question: %q. Current weather context: %s, %d°C, %s. Provide a helpful, accurate response.",
		message, record.Location.Name, cur.Temperature, cur.Description)
}
